package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
)

func registerAdminRoutes(api *gin.RouterGroup, deps Deps) {
	requireAdmin := middleware.RequireAdmin(deps.Registry.Travelers)

	travelerHandler := handlers.NewTravelerHandler(deps.Registry.Travelers, deps.Sessions)
	api.POST("/travelers", requireAdmin, travelerHandler.Create)
	api.DELETE("/travelers/:id", requireAdmin, travelerHandler.Delete)

	settingsHandler := handlers.NewSettingsHandler(deps.Registry.Settings)
	api.PUT("/settings/:key", requireAdmin, settingsHandler.Upsert)

	cacheHandler := handlers.NewCacheHandler(deps.Registry)
	cacheGroup := api.Group("/cache")
	cacheGroup.Use(requireAdmin)
	{
		cacheGroup.GET("/status", cacheHandler.Status)
		cacheGroup.POST("/refresh", cacheHandler.Refresh)
	}
}
