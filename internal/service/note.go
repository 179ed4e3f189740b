package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/models"
)

// NoteInput carries the mutable note fields.
type NoteInput struct {
	UserInput     string
	AttachmentURL *string
	ProjectID     uint
	EventID       *uint
	Phase         *models.Phase
}

// NoteListFilter narrows listings; a nil ProjectID means all projects.
type NoteListFilter struct {
	ProjectID *uint
	Offset    int
	Limit     int
}

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

func (s *NoteService) Create(ctx context.Context, in NoteInput) (*models.Note, error) {
	if err := validateNoteInput(in); err != nil {
		return nil, err
	}

	note := &models.Note{
		UserInput:     in.UserInput,
		AttachmentURL: in.AttachmentURL,
		ProjectID:     in.ProjectID,
		EventID:       in.EventID,
		Phase:         in.Phase,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &models.Project{}, in.ProjectID, "project"); err != nil {
			return err
		}
		if in.EventID != nil {
			if err := requireExists(tx, &models.Event{}, *in.EventID, "event"); err != nil {
				return err
			}
		}
		if err := tx.Create(note).Error; err != nil {
			return storage("create note", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := s.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, notFoundOr("get note", "note", id, err)
	}
	return &note, nil
}

func (s *NoteService) List(ctx context.Context, f NoteListFilter) ([]models.Note, error) {
	q := s.db.WithContext(ctx)
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	var notes []models.Note
	if err := window(q, f.Offset, f.Limit).Find(&notes).Error; err != nil {
		return nil, storage("list notes", err)
	}
	return notes, nil
}

// Update replaces all mutable fields.
func (s *NoteService) Update(ctx context.Context, id uint, in NoteInput) (*models.Note, error) {
	if err := validateNoteInput(in); err != nil {
		return nil, err
	}

	var note models.Note
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, id).Error; err != nil {
			return notFoundOr("get note", "note", id, err)
		}
		if err := requireExists(tx, &models.Project{}, in.ProjectID, "project"); err != nil {
			return err
		}
		if in.EventID != nil {
			if err := requireExists(tx, &models.Event{}, *in.EventID, "event"); err != nil {
				return err
			}
		}

		note.UserInput = in.UserInput
		note.AttachmentURL = in.AttachmentURL
		note.ProjectID = in.ProjectID
		note.EventID = in.EventID
		note.Phase = in.Phase

		if err := tx.Save(&note).Error; err != nil {
			return storage("update note", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Note{}, id)
	if res.Error != nil {
		return storage("delete note", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return nil
}

func validateNoteInput(in NoteInput) error {
	if strings.TrimSpace(in.UserInput) == "" {
		return fmt.Errorf("user_input is required: %w", ErrValidation)
	}
	if in.ProjectID == 0 {
		return fmt.Errorf("project_id is required: %w", ErrValidation)
	}
	if in.Phase != nil && !in.Phase.Valid() {
		return fmt.Errorf("phase %q is not one of pre_event, event, post_event: %w", *in.Phase, ErrValidation)
	}
	return nil
}
