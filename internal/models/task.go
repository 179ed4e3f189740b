package models

import "time"

// Phase situates a task or note relative to its event.
type Phase string

const (
	PhasePreEvent  Phase = "pre_event"
	PhaseEvent     Phase = "event"
	PhasePostEvent Phase = "post_event"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhasePreEvent, PhaseEvent, PhasePostEvent:
		return true
	}
	return false
}

// Task is an actionable item. ParentTaskID forms the task tree; the child
// owns the foreign key and a parent is never required to outlive its
// children (deletion sets their reference to NULL).
type Task struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserInput     string     `gorm:"type:text;not null" json:"user_input"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	EstimatedTime *int       `json:"estimated_time,omitempty"`
	Note          *string    `gorm:"type:text" json:"note,omitempty"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	AttachmentURL *string    `gorm:"size:500" json:"attachment_url,omitempty"`
	Phase         *Phase     `gorm:"size:20" json:"phase,omitempty"`
	ProjectID     uint       `gorm:"index;not null" json:"project_id"`
	ParentTaskID  *uint      `gorm:"index" json:"parent_task_id,omitempty"`
	EventID       *uint      `gorm:"index" json:"event_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Owners []Owner `gorm:"many2many:task_owners" json:"owners"`
	Tags   []Tag   `gorm:"many2many:task_tags" json:"tags"`
}

// TaskOwner is the Task<->Owner join row. Registered as a custom join
// table so the row keeps its own creation timestamp.
type TaskOwner struct {
	TaskID    uint      `gorm:"primaryKey" json:"task_id"`
	OwnerID   uint      `gorm:"primaryKey" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskTag is the Task<->Tag join row.
type TaskTag struct {
	TaskID    uint      `gorm:"primaryKey" json:"task_id"`
	TagID     uint      `gorm:"primaryKey" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
