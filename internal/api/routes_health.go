package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, deps Deps) {
	if !deps.Config.Monitoring.Health.Enabled {
		return
	}

	r.GET("/health", handlers.Health())
	r.GET("/health/live", handlers.Health())
	r.GET("/health/ready", handlers.Ready(deps.DB, deps.REST))
}
