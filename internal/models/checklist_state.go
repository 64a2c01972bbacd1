package models

import "time"

// ChecklistState records whether a shared preparation item has been handled
// and by whom.
type ChecklistState struct {
	BaseModel

	Label     string     `gorm:"not null" json:"label"`
	Group     string     `gorm:"index;default:packing" json:"group"`
	Checked   bool       `gorm:"default:false" json:"checked"`
	CheckedBy string     `gorm:"type:uuid" json:"checked_by"`
	CheckedAt *time.Time `json:"checked_at"`
}
