package models

import (
	"time"

	"gorm.io/datatypes"
)

// Board is the top-level container grouping projects. ExternalID is the
// short human-shareable code handed out to users.
type Board struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ExternalID string            `gorm:"size:5;uniqueIndex;not null" json:"external_id"`
	Name       string            `gorm:"size:100;not null" json:"name"`
	Settings   datatypes.JSONMap `json:"settings"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
}
