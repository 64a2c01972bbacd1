package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers"
	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/middleware"
)

func registerAuthRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler(
		deps.JWT,
		deps.Sessions,
		deps.Registry.Travelers,
		deps.Config.Auth.Site.AccessPassword,
	)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Authenticated auth routes
	secured := r.Group("/api/auth")
	secured.Use(middleware.Auth(deps.JWT))
	{
		secured.GET("/me", authHandler.Me)
		secured.POST("/logout", authHandler.Logout)
	}
}
