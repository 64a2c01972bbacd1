package models

import "gorm.io/datatypes"

// Expense is a shared cost entry, optionally split across travelers.
type Expense struct {
	BaseModel

	Title    string         `gorm:"not null" json:"title"`
	Amount   float64        `gorm:"not null" json:"amount"`
	Currency string         `gorm:"default:JPY" json:"currency"`
	Category string         `gorm:"index;default:other" json:"category"`
	Date     string         `gorm:"index" json:"date"`
	PaidBy   string         `gorm:"type:uuid" json:"paid_by"`
	Split    datatypes.JSON `json:"split"`
	Notes    string         `json:"notes"`
}
