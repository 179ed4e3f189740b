package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/ident"
	"github.com/mkravets/taskboard/internal/models"
)

// maxCodeAttempts bounds external-id generation retries.
const maxCodeAttempts = 5

// BoardInput carries the mutable board fields. ExternalID is ignored on
// create (always generated) and honoured on update when non-empty.
type BoardInput struct {
	Name       string
	Settings   map[string]any
	ExternalID string
}

// BoardService manages boards and owns the cascade to everything below
// them.
type BoardService struct {
	db      *gorm.DB
	genCode func() string
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{db: db, genCode: ident.New}
}

// Create persists a new board under a freshly generated external id,
// retrying generation when the code is already taken.
func (s *BoardService) Create(ctx context.Context, in BoardInput) (*models.Board, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("board name is required: %w", ErrValidation)
	}

	db := s.db.WithContext(ctx)
	board := &models.Board{Name: in.Name, Settings: settingsOrEmpty(in.Settings)}
	for range maxCodeAttempts {
		code := s.genCode()
		var taken int64
		if err := db.Model(&models.Board{}).Where("external_id = ?", code).Count(&taken).Error; err != nil {
			return nil, storage("check board code", err)
		}
		if taken > 0 {
			continue
		}
		board.ExternalID = code
		if err := db.Create(board).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race on the unique index; try another code.
				continue
			}
			return nil, storage("create board", err)
		}
		return board, nil
	}
	return nil, fmt.Errorf("no unique board code after %d attempts: %w", maxCodeAttempts, ErrConflict)
}

func (s *BoardService) Get(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	if err := s.db.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, notFoundOr("get board", "board", id, err)
	}
	return &board, nil
}

// GetByCode looks a board up by its shareable external id.
func (s *BoardService) GetByCode(ctx context.Context, code string) (*models.Board, error) {
	var board models.Board
	err := s.db.WithContext(ctx).Where("external_id = ?", code).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("board %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, storage("get board by code", err)
	}
	return &board, nil
}

func (s *BoardService) List(ctx context.Context, offset, limit int) ([]models.Board, error) {
	var boards []models.Board
	if err := window(s.db.WithContext(ctx), offset, limit).Find(&boards).Error; err != nil {
		return nil, storage("list boards", err)
	}
	return boards, nil
}

// Update replaces all mutable fields (full overwrite, not a merge) and
// refreshes updated_at.
func (s *BoardService) Update(ctx context.Context, id uint, in BoardInput) (*models.Board, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("board name is required: %w", ErrValidation)
	}

	var board models.Board
	if err := s.db.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, notFoundOr("get board", "board", id, err)
	}

	board.Name = in.Name
	board.Settings = settingsOrEmpty(in.Settings)
	if in.ExternalID != "" {
		board.ExternalID = in.ExternalID
	}

	if err := s.db.WithContext(ctx).Save(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("external id %q is already taken: %w", in.ExternalID, ErrConflict)
		}
		return nil, storage("update board", err)
	}
	return &board, nil
}

// Delete removes the board and cascades to its projects and their
// tasks, notes and task associations in one transaction.
func (s *BoardService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var board models.Board
		if err := tx.First(&board, id).Error; err != nil {
			return notFoundOr("get board", "board", id, err)
		}

		projectIDs := func() *gorm.DB {
			return tx.Model(&models.Project{}).Select("id").Where("board_id = ?", id)
		}
		taskIDs := func() *gorm.DB {
			return tx.Model(&models.Task{}).Select("id").Where("project_id IN (?)", projectIDs())
		}

		if err := cascadeTasks(tx, taskIDs, projectIDs); err != nil {
			return err
		}
		if err := tx.Where("project_id IN (?)", projectIDs()).Delete(&models.Note{}).Error; err != nil {
			return storage("delete board notes", err)
		}
		if err := tx.Where("board_id = ?", id).Delete(&models.Project{}).Error; err != nil {
			return storage("delete board projects", err)
		}
		if err := tx.Delete(&models.Board{}, id).Error; err != nil {
			return storage("delete board", err)
		}
		return nil
	})
}

// cascadeTasks removes the tasks selected by taskIDs along with their
// association rows, first detaching any surviving subtasks that point
// into the doomed set. projectIDs scopes the survivors check; tasks in
// those projects are being deleted anyway.
func cascadeTasks(tx *gorm.DB, taskIDs, projectIDs func() *gorm.DB) error {
	if err := tx.Where("task_id IN (?)", taskIDs()).Delete(&models.TaskOwner{}).Error; err != nil {
		return storage("delete task owners", err)
	}
	if err := tx.Where("task_id IN (?)", taskIDs()).Delete(&models.TaskTag{}).Error; err != nil {
		return storage("delete task tags", err)
	}
	if err := tx.Model(&models.Task{}).
		Where("parent_task_id IN (?)", taskIDs()).
		Where("project_id NOT IN (?)", projectIDs()).
		Update("parent_task_id", nil).Error; err != nil {
		return storage("detach subtasks", err)
	}
	if err := tx.Where("project_id IN (?)", projectIDs()).Delete(&models.Task{}).Error; err != nil {
		return storage("delete tasks", err)
	}
	return nil
}

func settingsOrEmpty(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}
