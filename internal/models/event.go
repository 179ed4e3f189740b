package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a calendar-like occurrence tasks and notes can reference.
// Deleting one never deletes its dependents; their references are
// cleared instead. CalendarEventID holds the remote id when the event
// is mirrored to Google Calendar.
type Event struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"size:200;not null" json:"title"`
	Description     *string           `gorm:"type:text" json:"description,omitempty"`
	StartTime       time.Time         `gorm:"not null" json:"start_time"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	IsRecurring     bool              `gorm:"default:false" json:"is_recurring"`
	RecurrenceRule  datatypes.JSONMap `json:"recurrence_rule,omitempty"`
	CalendarEventID string            `gorm:"size:128" json:"-"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
