package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// WishlistHandler exposes the shared wishlist of places and activities.
type WishlistHandler struct {
	items *syncstore.Collection[models.WishlistItem]
}

func NewWishlistHandler(items *syncstore.Collection[models.WishlistItem]) *WishlistHandler {
	return &WishlistHandler{items: items}
}

type wishlistItemRequest struct {
	Title    string `json:"title" validate:"required,max=160"`
	Category string `json:"category" validate:"omitempty,max=40"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
	URL      string `json:"url" validate:"omitempty,url,max=512"`
	Priority int    `json:"priority" validate:"omitempty,min=1,max=3"`
	Done     bool   `json:"done"`
}

// GET /api/wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	rows, source := h.items.ReadSourced(requestContext(c))
	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// POST /api/wishlist
func (h *WishlistHandler) Create(c *gin.Context) {
	var req wishlistItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	item := models.WishlistItem{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Title:     req.Title,
		Category:  req.Category,
		Notes:     req.Notes,
		URL:       req.URL,
		Priority:  req.Priority,
		Done:      req.Done,
		AddedBy:   c.GetString(middleware.CtxUserIDKey),
	}

	created := h.items.Write(requestContext(c), item)
	response.Success(c, http.StatusCreated, created)
}

// PATCH /api/wishlist/:id
func (h *WishlistHandler) Update(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}

	updated, err := h.items.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("wishlist item not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/wishlist/:id
func (h *WishlistHandler) Delete(c *gin.Context) {
	h.items.Delete(requestContext(c), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
