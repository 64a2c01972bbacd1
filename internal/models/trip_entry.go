package models

import "gorm.io/datatypes"

// TripEntry is one scheduled block on the day-by-day itinerary.
type TripEntry struct {
	BaseModel

	Date          string         `gorm:"index;not null" json:"date"`
	Title         string         `gorm:"not null" json:"title"`
	DestinationID string         `gorm:"type:uuid;index" json:"destination_id"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	Activities    datatypes.JSON `json:"activities"`
	Notes         string         `json:"notes"`
	CreatedBy     string         `gorm:"type:uuid" json:"created_by"`
}
