package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/errors"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/pkg/response"
)

// CacheHandler exposes cache diagnostics and manual refresh controls.
type CacheHandler struct {
	registry *syncstore.Registry
}

func NewCacheHandler(registry *syncstore.Registry) *CacheHandler {
	return &CacheHandler{registry: registry}
}

// GET /api/cache/status
func (h *CacheHandler) Status(c *gin.Context) {
	statuses := h.registry.Statuses()
	response.SuccessWithMeta(c, http.StatusOK, statuses, &response.Meta{Total: len(statuses)})
}

// POST /api/cache/refresh
//
// Without a domain parameter every stale domain is revalidated; with one,
// that single domain is forced regardless of freshness.
func (h *CacheHandler) Refresh(c *gin.Context) {
	ctx := requestContext(c)

	if domain := strings.TrimSpace(c.Query("domain")); domain != "" {
		collection, ok := h.registry.Lookup(domain)
		if !ok {
			response.Error(c, errors.NewNotFound("unknown domain"))
			return
		}
		if err := collection.Revalidate(ctx); err != nil {
			response.Error(c, errors.Wrap(err, "refresh failed"))
			return
		}
		response.Success(c, http.StatusOK, collection.Status())
		return
	}

	if err := h.registry.RevalidateStale(ctx); err != nil {
		response.Error(c, errors.Wrap(err, "refresh incomplete"))
		return
	}
	response.Success(c, http.StatusOK, h.registry.Statuses())
}
