package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a unit of work under a board, containing tasks and notes.
type Project struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Deadline  *time.Time        `json:"deadline,omitempty"`
	Settings  datatypes.JSONMap `json:"settings"`
	BoardID   uint              `gorm:"index;not null" json:"board_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Notes []Note `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
