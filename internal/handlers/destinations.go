package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// DestinationHandler manages the stops along the trip route.
type DestinationHandler struct {
	destinations *syncstore.Collection[models.Destination]
}

func NewDestinationHandler(destinations *syncstore.Collection[models.Destination]) *DestinationHandler {
	return &DestinationHandler{destinations: destinations}
}

type destinationRequest struct {
	Name      string  `json:"name" validate:"required,max=120"`
	Region    string  `json:"region" validate:"omitempty,max=120"`
	Lat       float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng       float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
	Arrival   string  `json:"arrival" validate:"omitempty,datestr"`
	Departure string  `json:"departure" validate:"omitempty,datestr"`
	Notes     string  `json:"notes" validate:"omitempty,max=2000"`
	SortOrder int     `json:"sort_order"`
	Visited   bool    `json:"visited"`
}

// GET /api/destinations
func (h *DestinationHandler) List(c *gin.Context) {
	rows, source := h.destinations.ReadSourced(requestContext(c))
	response.SuccessWithMeta(c, http.StatusOK, rows, &response.Meta{
		Total:  len(rows),
		Source: string(source),
	})
}

// POST /api/destinations
func (h *DestinationHandler) Create(c *gin.Context) {
	var req destinationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	destination := models.Destination{
		BaseModel: models.BaseModel{ID: uuid.NewString()},
		Name:      req.Name,
		Region:    req.Region,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Arrival:   req.Arrival,
		Departure: req.Departure,
		Notes:     req.Notes,
		SortOrder: req.SortOrder,
		Visited:   req.Visited,
	}

	created := h.destinations.Write(requestContext(c), destination)
	response.Success(c, http.StatusCreated, created)
}

// PATCH /api/destinations/:id
func (h *DestinationHandler) Update(c *gin.Context) {
	fields, ok := bindPatchFields(c)
	if !ok {
		return
	}

	updated, err := h.destinations.Patch(requestContext(c), c.Param("id"), fields)
	if err != nil {
		response.Error(c, errors.NewNotFound("destination not found"))
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// DELETE /api/destinations/:id
func (h *DestinationHandler) Delete(c *gin.Context) {
	h.destinations.Delete(requestContext(c), c.Param("id"))
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
