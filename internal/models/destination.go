package models

// Destination is a stop on the trip route.
type Destination struct {
	BaseModel

	Name      string  `gorm:"not null" json:"name"`
	Region    string  `json:"region"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Arrival   string  `json:"arrival"`
	Departure string  `json:"departure"`
	Notes     string  `json:"notes"`
	SortOrder int     `gorm:"index;default:0" json:"sort_order"`
	Visited   bool    `gorm:"default:false" json:"visited"`
}
