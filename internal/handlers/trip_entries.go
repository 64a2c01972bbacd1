package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// TripEntryHandler manages the day-by-day itinerary.
type TripEntryHandler struct {
	entries *syncstore.Collection[models.TripEntry]
}

func NewTripEntryHandler(entries *syncstore.Collection[models.TripEntry]) *TripEntryHandler {
	return &TripEntryHandler{entries: entries}
}

type tripEntryRequest struct {
	Date          string   `json:"date" validate:"required,datestr"`
	Title         string   `json:"title" validate:"required,max=160"`
	DestinationID string   `json:"destination_id" validate:"omitempty,uuid4"`
	StartTime     string   `json:"start_time" validate:"omitempty,max=8"`
	EndTime       string   `json:"end_time" validate:"omitempty,max=8"`
	Activities    []string `json:"activities" validate:"omitempty,dive,max=160"`
	Notes         string   `json:"notes" validate:"omitempty,max=2000"`
}

// GET /api/trip-entries
//
// Entries come back ordered by date then start time, the order the itinerary
// view renders them in. An optional ?date= filter narrows to a single day.
func (h *TripEntryHandler) List(c *gin.Context) {
	rows, source := h.entries.ReadSourced(requestContext(c))

	if date := c.Query("date"); date != "" {
		filtered := make([]models.TripEntry, 0, len(rows))
		for _, entry := range rows {
			if entry.Date == date {
				filtered = append(filtered, entry)
			}
		}
		rows = filtered
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].StartTime < rows[j].StartTime
	})

	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// POST /api/trip-entries
func (h *TripEntryHandler) Create(c *gin.Context) {
	var req tripEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	entry := models.TripEntry{
		BaseModel:     models.BaseModel{ID: uuid.NewString()},
		Date:          req.Date,
		Title:         req.Title,
		DestinationID: req.DestinationID,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Notes:         req.Notes,
		CreatedBy:     c.GetString(middleware.CtxUserIDKey),
	}

	if len(req.Activities) > 0 {
		blob, err := json.Marshal(req.Activities)
		if err != nil {
			response.Error(c, errors.NewBadRequest("invalid activities"))
			return
		}
		entry.Activities = datatypes.JSON(blob)
	}

	created := h.entries.Write(requestContext(c), entry)
	response.Success(c, http.StatusCreated, created)
}

// PATCH /api/trip-entries/:id
func (h *TripEntryHandler) Update(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}

	updated, err := h.entries.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("trip entry not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/trip-entries/:id
func (h *TripEntryHandler) Delete(c *gin.Context) {
	h.entries.Delete(requestContext(c), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
