package models

import "time"

// Note is a free-text record attached to a project.
type Note struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserInput     string     `gorm:"type:text;not null" json:"user_input"`
	AttachmentURL *string    `gorm:"size:500" json:"attachment_url,omitempty"`
	ProjectID     uint       `gorm:"index;not null" json:"project_id"`
	EventID       *uint      `gorm:"index" json:"event_id,omitempty"`
	Phase         *Phase     `gorm:"size:20" json:"phase,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
