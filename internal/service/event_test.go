package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mkravets/taskboard/internal/models"
)

// fakeMirror records calendar calls and can be told to fail.
type fakeMirror struct {
	created []uint
	deleted []string
	fail    bool
}

func (f *fakeMirror) CreateEvent(_ context.Context, ev models.Event) (string, error) {
	if f.fail {
		return "", errors.New("calendar unavailable")
	}
	f.created = append(f.created, ev.ID)
	return fmt.Sprintf("remote-%d", ev.ID), nil
}

func (f *fakeMirror) UpdateEvent(_ context.Context, _ models.Event, _ string) error {
	if f.fail {
		return errors.New("calendar unavailable")
	}
	return nil
}

func (f *fakeMirror) DeleteEvent(_ context.Context, remoteID string) error {
	if f.fail {
		return errors.New("calendar unavailable")
	}
	f.deleted = append(f.deleted, remoteID)
	return nil
}

func eventInput(title string) EventInput {
	return EventInput{Title: title, StartTime: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)}
}

func TestEventCreateRequiresTitleAndStart(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, EventInput{StartTime: time.Now()}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}
	if _, err := svc.Create(ctx, EventInput{Title: "kickoff"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing start_time, got %v", err)
	}
}

// Deleting an event clears the reference on dependent tasks and notes
// instead of deleting them.
func TestEventDeleteDetachesDependents(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, nil)
	ctx := context.Background()
	board := mustCreateBoard(t, db, "B")
	project := mustCreateProject(t, db, "P", board.ID)

	event, err := svc.Create(ctx, eventInput("kickoff"))
	if err != nil {
		t.Fatalf("create event failed: %v", err)
	}
	task := mustCreateTask(t, db, TaskInput{UserInput: "prep", ProjectID: project.ID, EventID: &event.ID})
	note, err := NewNoteService(db).Create(ctx, NoteInput{UserInput: "agenda", ProjectID: project.ID, EventID: &event.ID})
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}

	if err := svc.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete event failed: %v", err)
	}

	gotTask, err := NewTaskService(db).Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("task must survive event deletion: %v", err)
	}
	if gotTask.EventID != nil {
		t.Fatalf("expected task.event_id cleared, got %v", *gotTask.EventID)
	}

	gotNote, err := NewNoteService(db).Get(ctx, note.ID)
	if err != nil {
		t.Fatalf("note must survive event deletion: %v", err)
	}
	if gotNote.EventID != nil {
		t.Fatalf("expected note.event_id cleared, got %v", *gotNote.EventID)
	}
}

func TestEventMirrorLifecycle(t *testing.T) {
	db := setupTestDB(t)
	mirror := &fakeMirror{}
	svc := NewEventService(db, mirror)
	ctx := context.Background()

	event, err := svc.Create(ctx, eventInput("kickoff"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(mirror.created) != 1 || mirror.created[0] != event.ID {
		t.Fatalf("expected mirror create for event %d, got %v", event.ID, mirror.created)
	}

	stored, err := svc.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	wantRemote := fmt.Sprintf("remote-%d", event.ID)
	if stored.CalendarEventID != wantRemote {
		t.Fatalf("expected remote id %q stored, got %q", wantRemote, stored.CalendarEventID)
	}

	if err := svc.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(mirror.deleted) != 1 || mirror.deleted[0] != wantRemote {
		t.Fatalf("expected mirror delete of %q, got %v", wantRemote, mirror.deleted)
	}
}

// A broken calendar must never fail the request.
func TestEventMirrorFailureIsSwallowed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, &fakeMirror{fail: true})
	ctx := context.Background()

	event, err := svc.Create(ctx, eventInput("kickoff"))
	if err != nil {
		t.Fatalf("create must succeed despite mirror failure: %v", err)
	}

	stored, err := svc.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.CalendarEventID != "" {
		t.Fatalf("expected no remote id, got %q", stored.CalendarEventID)
	}
	if err := svc.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete must succeed despite mirror failure: %v", err)
	}
}

func TestEventUpdateOverwrites(t *testing.T) {
	db := setupTestDB(t)
	svc := NewEventService(db, nil)
	ctx := context.Background()

	end := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	event, err := svc.Create(ctx, EventInput{
		Title:       "kickoff",
		Description: ptr("all hands"),
		StartTime:   time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:     &end,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(ctx, event.ID, EventInput{
		Title:       "kickoff (moved)",
		StartTime:   time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC),
		IsRecurring: true,
		RecurrenceRule: map[string]any{
			"freq": "weekly",
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "kickoff (moved)" || updated.Description != nil || updated.EndTime != nil {
		t.Fatalf("expected full overwrite, got %+v", updated)
	}
	if !updated.IsRecurring || updated.RecurrenceRule["freq"] != "weekly" {
		t.Fatalf("expected recurrence stored, got %v", updated.RecurrenceRule)
	}
}
