package service

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mkravets/taskboard/database"
	"github.com/mkravets/taskboard/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(sqlite.Open(path))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustCreateBoard(t *testing.T, db *gorm.DB, name string) *models.Board {
	t.Helper()
	board, err := NewBoardService(db).Create(context.Background(), BoardInput{Name: name})
	if err != nil {
		t.Fatalf("failed to create board %q: %v", name, err)
	}
	return board
}

func mustCreateProject(t *testing.T, db *gorm.DB, name string, boardID uint) *models.Project {
	t.Helper()
	project, err := NewProjectService(db).Create(context.Background(), ProjectInput{Name: name, BoardID: boardID})
	if err != nil {
		t.Fatalf("failed to create project %q: %v", name, err)
	}
	return project
}

func mustCreateTask(t *testing.T, db *gorm.DB, in TaskInput) *models.Task {
	t.Helper()
	task, err := NewTaskService(db).Create(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func ptr[T any](v T) *T { return &v }
