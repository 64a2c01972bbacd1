package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// ChecklistHandler tracks the shared preparation checklist.
type ChecklistHandler struct {
	states *syncstore.Collection[models.ChecklistState]
	now    func() time.Time
}

func NewChecklistHandler(states *syncstore.Collection[models.ChecklistState]) *ChecklistHandler {
	return &ChecklistHandler{states: states, now: time.Now}
}

type checklistItemRequest struct {
	Label string `json:"label" validate:"required,max=160"`
	Group string `json:"group" validate:"omitempty,max=40"`
}

type checklistCheckRequest struct {
	Checked bool `json:"checked"`
}

// GET /api/checklist
func (h *ChecklistHandler) List(c *gin.Context) {
	rows, source := h.states.ReadSourced(requestContext(c))
	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// POST /api/checklist
func (h *ChecklistHandler) Create(c *gin.Context) {
	var req checklistItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	state := models.ChecklistState{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Label:     req.Label,
		Group:     req.Group,
	}

	created := h.states.Write(requestContext(c), state)
	response.Success(c, http.StatusCreated, created)
}

// POST /api/checklist/:id/check
//
// Checking stamps who handled the item and when; unchecking clears both.
func (h *ChecklistHandler) Check(c *gin.Context) {
	var req checklistCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}

	fields := map[string]any{"checked": req.Checked}
	if req.Checked {
		fields["checked_by"] = c.GetString(middleware.CtxUserIDKey)
		fields["checked_at"] = h.now().UTC().Format(time.RFC3339)
	} else {
		fields["checked_by"] = ""
		fields["checked_at"] = nil
	}

	updated, err := h.states.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("checklist item not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// PATCH /api/checklist/:id
func (h *ChecklistHandler) Update(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}

	updated, err := h.states.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("checklist item not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/checklist/:id
func (h *ChecklistHandler) Delete(c *gin.Context) {
	h.states.Delete(requestContext(c), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
