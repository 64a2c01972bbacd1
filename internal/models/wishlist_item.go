package models

// WishlistItem is a place or activity a traveler wants to fit into the trip.
type WishlistItem struct {
	BaseModel

	Title    string `gorm:"not null" json:"title"`
	Category string `gorm:"index;default:other" json:"category"`
	Notes    string `json:"notes"`
	URL      string `json:"url"`
	Priority int    `gorm:"default:2" json:"priority"`
	Done     bool   `gorm:"default:false" json:"done"`
	AddedBy  string `gorm:"type:uuid" json:"added_by"`
}
