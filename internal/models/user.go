package models

// User describes a traveler sharing the planner.
//
// PINHash crosses the data layer (cache and remote store serialize full
// rows); the API layer sanitizes it out before responding.
type User struct {
	BaseModel

	Name    string `gorm:"uniqueIndex;not null" json:"name"`
	Color   string `gorm:"default:#e17055" json:"color"`
	Avatar  string `json:"avatar"`
	IsAdmin bool   `gorm:"default:false" json:"is_admin"`

	// PINHash is optional; travelers without a PIN authenticate with the
	// shared site password alone.
	PINHash string `json:"pin_hash,omitempty"`
}

// Public returns the API-safe projection of the traveler.
func (u User) Public() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"color":      u.Color,
		"avatar":     u.Avatar,
		"is_admin":   u.IsAdmin,
		"has_pin":    u.PINHash != "",
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}
