package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// SettingsHandler manages the shared site settings (title, theme, map
// defaults and similar).
type SettingsHandler struct {
	settings *syncstore.Collection[models.SiteSetting]
}

func NewSettingsHandler(settings *syncstore.Collection[models.SiteSetting]) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type settingUpsertRequest struct {
	Value map[string]any `json:"value" validate:"required"`
}

// GET /api/settings
func (h *SettingsHandler) List(c *gin.Context) {
	rows, source := h.settings.ReadSourced(requestContext(c))
	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// GET /api/settings/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))

	for _, setting := range h.settings.Read(requestContext(c)) {
		if setting.Key == key {
			response.Success(c, http.StatusOK, setting)
			return
		}
	}

	response.Error(c, errors.NewNotFound("setting not found"))
}

// PUT /api/settings/:key
//
// Settings use their key as row ID so the same logical setting reconciles to
// one remote row no matter which client first wrote it.
func (h *SettingsHandler) Upsert(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		response.Error(c, errors.NewBadRequest("setting key is required"))
		return
	}

	var req settingUpsertRequest
	if !bindAndValidate(c, &req) {
		return
	}

	setting := models.SiteSetting{
		BaseModel: models.BaseModel{ID: key},
		Key:       key,
		Value:     datatypes.JSONMap(req.Value),
	}

	saved := h.settings.Write(requestContext(c), setting)
	response.Success(c, http.StatusOK, saved)
}
