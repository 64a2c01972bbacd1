package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/handlers"
)

func registerTravelRoutes(api *gin.RouterGroup, deps Deps) {
	registry := deps.Registry

	wishlistHandler := handlers.NewWishlistHandler(registry.Wishlist)
	wishlist := api.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.List)
		wishlist.POST("", wishlistHandler.Create)
		wishlist.PATCH("/:id", wishlistHandler.Update)
		wishlist.DELETE("/:id", wishlistHandler.Delete)
	}

	checklistHandler := handlers.NewChecklistHandler(registry.Checklist)
	checklist := api.Group("/checklist")
	{
		checklist.GET("", checklistHandler.List)
		checklist.POST("", checklistHandler.Create)
		checklist.POST("/:id/check", checklistHandler.Check)
		checklist.PATCH("/:id", checklistHandler.Update)
		checklist.DELETE("/:id", checklistHandler.Delete)
	}

	destinationHandler := handlers.NewDestinationHandler(registry.Destinations)
	destinations := api.Group("/destinations")
	{
		destinations.GET("", destinationHandler.List)
		destinations.POST("", destinationHandler.Create)
		destinations.PATCH("/:id", destinationHandler.Update)
		destinations.DELETE("/:id", destinationHandler.Delete)
	}

	expenseHandler := handlers.NewExpenseHandler(registry.Expenses)
	expenses := api.Group("/expenses")
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.PATCH("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}

	tripEntryHandler := handlers.NewTripEntryHandler(registry.TripEntries)
	entries := api.Group("/trip-entries")
	{
		entries.GET("", tripEntryHandler.List)
		entries.POST("", tripEntryHandler.Create)
		entries.PATCH("/:id", tripEntryHandler.Update)
		entries.DELETE("/:id", tripEntryHandler.Delete)
	}

	travelerHandler := handlers.NewTravelerHandler(registry.Travelers, deps.Sessions)
	travelers := api.Group("/travelers")
	{
		travelers.GET("", travelerHandler.List)
		travelers.PATCH("/:id", travelerHandler.Update)
	}

	settingsHandler := handlers.NewSettingsHandler(registry.Settings)
	settings := api.Group("/settings")
	{
		settings.GET("", settingsHandler.List)
		settings.GET("/:key", settingsHandler.Get)
	}
}
