package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/models"
)

// ProjectInput carries the mutable project fields.
type ProjectInput struct {
	Name     string
	Deadline *time.Time
	Settings map[string]any
	BoardID  uint
}

// ProjectListFilter narrows listings; a nil BoardID means all boards.
type ProjectListFilter struct {
	BoardID *uint
	Offset  int
	Limit   int
}

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// Create persists a project under an existing board. Referential
// integrity is checked here rather than left to a raw constraint error.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:     in.Name,
		Deadline: in.Deadline,
		Settings: settingsOrEmpty(in.Settings),
		BoardID:  in.BoardID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &models.Board{}, in.BoardID, "board"); err != nil {
			return err
		}
		if err := tx.Create(project).Error; err != nil {
			return storage("create project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, notFoundOr("get project", "project", id, err)
	}
	return &project, nil
}

func (s *ProjectService) List(ctx context.Context, f ProjectListFilter) ([]models.Project, error) {
	q := s.db.WithContext(ctx)
	if f.BoardID != nil {
		q = q.Where("board_id = ?", *f.BoardID)
	}
	var projects []models.Project
	if err := window(q, f.Offset, f.Limit).Find(&projects).Error; err != nil {
		return nil, storage("list projects", err)
	}
	return projects, nil
}

// Update replaces all mutable fields; a missing deadline clears the
// stored one.
func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	var project models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&project, id).Error; err != nil {
			return notFoundOr("get project", "project", id, err)
		}
		if err := requireExists(tx, &models.Board{}, in.BoardID, "board"); err != nil {
			return err
		}

		project.Name = in.Name
		project.Deadline = in.Deadline
		project.Settings = settingsOrEmpty(in.Settings)
		project.BoardID = in.BoardID

		if err := tx.Save(&project).Error; err != nil {
			return storage("update project", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete removes the project and cascades to its tasks, notes and task
// association rows in one transaction.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return notFoundOr("get project", "project", id, err)
		}

		projectIDs := func() *gorm.DB {
			return tx.Model(&models.Project{}).Select("id").Where("id = ?", id)
		}
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		}

		if err := cascadeTasks(tx, taskIDs, projectIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return storage("delete project notes", err)
		}
		if err := tx.Delete(&models.Project{}, id).Error; err != nil {
			return storage("delete project", err)
		}
		return nil
	})
}

func validateProjectInput(in ProjectInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("project name is required: %w", ErrValidation)
	}
	if in.BoardID == 0 {
		return fmt.Errorf("board_id is required: %w", ErrValidation)
	}
	return nil
}

// requireExists fails with ErrValidation when the referenced parent row
// is absent.
func requireExists(tx *gorm.DB, model any, id uint, entity string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return storage("check "+entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d does not exist: %w", entity, id, ErrValidation)
	}
	return nil
}
