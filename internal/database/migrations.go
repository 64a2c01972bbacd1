package database

import (
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.WishlistItem{},
		&models.ChecklistState{},
		&models.Destination{},
		&models.SiteSetting{},
		&models.Expense{},
		&models.TripEntry{},
	)
}
