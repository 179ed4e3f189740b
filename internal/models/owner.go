package models

import "time"

// Owner is a person or entity tasks can be assigned to.
type Owner struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	ExternalID *string   `gorm:"size:50;uniqueIndex" json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
