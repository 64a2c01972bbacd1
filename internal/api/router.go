package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/app"
	iauth "github.com/jeffjeff017/jp-travel-webapp-sub001/internal/auth"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/remote"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/syncstore"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *app.Config
	DB       *gorm.DB
	REST     *remote.Client
	JWT      *iauth.JWTService
	Sessions *iauth.SessionService
	Registry *syncstore.Registry
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("collection registry must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	// Basic rate limiting: 300 requests/minute per IP+path
	r.Use(middleware.RateLimit(300, time.Minute))

	registerHealthRoutes(r, deps)
	registerAuthRoutes(r, deps)

	requireAuth := middleware.Auth(deps.JWT)
	api := r.Group("/api")
	api.Use(requireAuth)

	registerTravelRoutes(api, deps)
	registerAdminRoutes(api, deps)

	if deps.Config.Monitoring.Prometheus.Enabled {
		endpoint := deps.Config.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
