package database

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jeffjeff017/jp-travel-webapp-sub001/internal/models"
)

// SeedData populates the default site settings and the initial admin
// traveler. Seeded rows use deterministic IDs so repeated start-ups and
// cache-to-remote migrations reconcile to the same records.
func SeedData(db *gorm.DB) error {
	settings := []models.SiteSetting{
		{
			BaseModel: models.BaseModel{ID: "site_title"},
			Key:       "site_title",
			Value:     datatypes.JSONMap{"text": "Travel Planner"},
		},
		{
			BaseModel: models.BaseModel{ID: "theme"},
			Key:       "theme",
			Value:     datatypes.JSONMap{"name": "momiji"},
		},
		{
			BaseModel: models.BaseModel{ID: "map_defaults"},
			Key:       "map_defaults",
			Value:     datatypes.JSONMap{"center_lat": 35.6812, "center_lng": 139.7671, "zoom": 6},
		},
		{
			BaseModel: models.BaseModel{ID: "petal_effect"},
			Key:       "petal_effect",
			Value:     datatypes.JSONMap{"enabled": true},
		},
		{
			BaseModel: models.BaseModel{ID: "mascot"},
			Key:       "mascot",
			Value:     datatypes.JSONMap{"choice": "shiba"},
		},
	}

	for _, setting := range settings {
		if err := db.Where(models.SiteSetting{Key: setting.Key}).Attrs(setting).FirstOrCreate(&models.SiteSetting{}).Error; err != nil {
			return err
		}
	}

	admin := models.User{
		BaseModel: models.BaseModel{ID: "admin"},
		Name:      "Admin",
		Color:     "#d63031",
		Avatar:    "🗺️",
		IsAdmin:   true,
	}
	if err := db.Where(models.User{Name: admin.Name}).Attrs(admin).FirstOrCreate(&models.User{}).Error; err != nil {
		return err
	}

	return nil
}
