package models

import "gorm.io/datatypes"

// SiteSetting stores one shared configuration value for the planner UI.
//
// Seeded settings use deterministic IDs equal to their key so that the same
// logical setting reconciles to a single remote row regardless of which
// client first pushed it.
type SiteSetting struct {
	BaseModel

	Key   string            `gorm:"uniqueIndex;not null" json:"key"`
	Value datatypes.JSONMap `json:"value"`
}
