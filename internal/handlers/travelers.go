package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/crypto"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// TravelerHandler exposes CRUD over the shared traveler profiles.
type TravelerHandler struct {
	travelers *syncstore.Collection[models.User]
	sessions  *iauth.SessionService
}

func NewTravelerHandler(travelers *syncstore.Collection[models.User], sessions *iauth.SessionService) *TravelerHandler {
	return &TravelerHandler{travelers: travelers, sessions: sessions}
}

type travelerCreateRequest struct {
	Name    string `json:"name" validate:"required,max=64"`
	Color   string `json:"color" validate:"omitempty,hexcolor"`
	Avatar  string `json:"avatar" validate:"omitempty,max=256"`
	IsAdmin bool   `json:"is_admin"`
	PIN     string `json:"pin" validate:"omitempty,min=4,max=12"`
}

type travelerUpdateRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=64"`
	Color   *string `json:"color" validate:"omitempty,hexcolor"`
	Avatar  *string `json:"avatar" validate:"omitempty,max=256"`
	IsAdmin *bool   `json:"is_admin"`
	PIN     *string `json:"pin" validate:"omitempty,max=12"`
}

// GET /api/travelers
func (h *TravelerHandler) List(c *gin.Context) {
	rows, source := h.travelers.ReadSourced(requestContext(c))

	out := make([]map[string]any, 0, len(rows))
	for _, traveler := range rows {
		out = append(out, traveler.Public())
	}

	response.SuccessWithMeta(c, http.StatusOK, out, &response.Meta{
		Total:  len(out),
		Source: string(source),
	})
}

// POST /api/travelers
func (h *TravelerHandler) Create(c *gin.Context) {
	var req travelerCreateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	// Login matches names case-insensitively, so uniqueness must too.
	for _, existing := range h.travelers.Read(requestContext(c)) {
		if strings.EqualFold(existing.Name, req.Name) {
			response.Error(c, errors.NewBadRequest("a traveler with that name already exists"))
			return
		}
	}

	traveler := models.User{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Name:      req.Name,
		Color:     req.Color,
		Avatar:    req.Avatar,
		IsAdmin:   req.IsAdmin,
	}

	if req.PIN != "" {
		hash, err := crypto.HashPassword(req.PIN)
		if err != nil {
			response.Error(c, errors.ErrInternalServer)
			return
		}
		traveler.PINHash = hash
	}

	created := h.travelers.Write(requestContext(c), traveler)
	response.Success(c, http.StatusCreated, created.Public())
}

// PATCH /api/travelers/:id
//
// Travelers may edit their own profile; editing anyone else requires admin.
// The admin flag itself may only be changed by an existing admin, so a
// traveler cannot promote themselves through a self-edit.
func (h *TravelerHandler) Update(c *gin.Context) {
	id := c.Param("id")
	requesterID := c.GetString(middleware.CtxUserIDKey)
	if requesterID == "" {
		response.Error(c, errors.ErrForbidden)
		return
	}
	requesterIsAdmin := h.isAdmin(c, requesterID)
	if requesterID != id && !requesterIsAdmin {
		response.Error(c, errors.ErrForbidden)
		return
	}

	var req travelerUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Color != nil {
		fields["color"] = *req.Color
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.IsAdmin != nil {
		if !requesterIsAdmin {
			response.Error(c, errors.ErrForbidden)
			return
		}
		fields["is_admin"] = *req.IsAdmin
	}
	if req.PIN != nil {
		if *req.PIN == "" {
			fields["pin_hash"] = ""
		} else {
			hash, err := crypto.HashPassword(*req.PIN)
			if err != nil {
				response.Error(c, errors.ErrInternalServer)
				return
			}
			fields["pin_hash"] = hash
		}
	}
	if len(fields) == 0 {
		response.Error(c, errors.NewBadRequest("no fields to update"))
		return
	}

	updated, err := h.travelers.Patch(requestContext(c), id, fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("traveler not found"))
		return
	}

	response.Success(c, http.StatusOK, updated.Public())
}

// isAdmin resolves the requester's current admin flag from the travelers
// collection rather than the token, so demotions apply without re-login.
func (h *TravelerHandler) isAdmin(c *gin.Context, requesterID string) bool {
	for _, traveler := range h.travelers.Read(requestContext(c)) {
		if traveler.ID == requesterID {
			return traveler.IsAdmin
		}
	}
	return false
}

// DELETE /api/travelers/:id
func (h *TravelerHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	h.travelers.Delete(requestContext(c), id)

	// A removed traveler must not keep a working refresh token.
	if h.sessions != nil {
		if err := h.sessions.RevokeUserSessions(id); err != nil {
			response.Error(c, errors.ErrInternalServer)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
