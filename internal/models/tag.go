package models

import "time"

// Tag is a label attachable to tasks. The four predefined tags are
// seeded at startup and act as canonical vocabulary.
type Tag struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	IsPredefined bool      `gorm:"default:false" json:"is_predefined"`
	CreatedAt    time.Time `json:"created_at"`
}

// PredefinedTags are created once at database init.
var PredefinedTags = []string{"urgent", "recurring", "important", "blocked"}
