package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mkravets/taskboard/internal/models"
)

func TestOwnerExternalIDUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOwnerService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, OwnerInput{Name: "Alice", ExternalID: ptr("emp-1")}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_, err := svc.Create(ctx, OwnerInput{Name: "Impostor", ExternalID: ptr("emp-1")})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Owners without external ids never conflict with each other.
	if _, err := svc.Create(ctx, OwnerInput{Name: "Bob"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, OwnerInput{Name: "Carol"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
}

func TestOwnerDeleteRemovesAssignments(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOwnerService(db)
	ctx := context.Background()
	board := mustCreateBoard(t, db, "B")
	project := mustCreateProject(t, db, "P", board.ID)

	owner, err := svc.Create(ctx, OwnerInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
	task := mustCreateTask(t, db, TaskInput{UserInput: "t", ProjectID: project.ID, OwnerIDs: []uint{owner.ID}})

	if err := svc.Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var links int64
	db.Model(&models.TaskOwner{}).Where("owner_id = ?", owner.ID).Count(&links)
	if links != 0 {
		t.Fatal("assignments must be removed with the owner")
	}

	// The task itself survives, merely unassigned.
	got, err := NewTaskService(db).Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("task should survive owner deletion: %v", err)
	}
	if len(got.Owners) != 0 {
		t.Fatalf("expected no owners, got %v", got.Owners)
	}
}

func TestPredefinedTagsSeeded(t *testing.T) {
	db := setupTestDB(t)

	tags, err := NewTagService(db).List(context.Background(), 0, 100)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	seeded := map[string]bool{}
	for _, tag := range tags {
		if tag.IsPredefined {
			seeded[tag.Name] = true
		}
	}
	for _, name := range models.PredefinedTags {
		if !seeded[name] {
			t.Fatalf("predefined tag %q missing", name)
		}
	}
}

func TestTagNameUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "custom"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(ctx, "custom"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate name, got %v", err)
	}
	// Clashing with a seeded tag is the same conflict.
	if _, err := svc.Create(ctx, "urgent"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on predefined name, got %v", err)
	}
}

func TestPredefinedTagDeleteRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewTagService(db)
	ctx := context.Background()

	var urgent models.Tag
	if err := db.Where("name = ?", "urgent").First(&urgent).Error; err != nil {
		t.Fatalf("seeded tag missing: %v", err)
	}
	if err := svc.Delete(ctx, urgent.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	custom, err := svc.Create(ctx, "ephemeral")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(ctx, custom.ID); err != nil {
		t.Fatalf("custom tag delete failed: %v", err)
	}
}
