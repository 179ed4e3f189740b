package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mkravets/taskboard/internal/models"
)

// CalendarMirror pushes event changes to an external calendar. A nil
// mirror disables the feature; mirror failures are logged, never
// surfaced, and never fail the request.
type CalendarMirror interface {
	CreateEvent(ctx context.Context, ev models.Event) (remoteID string, err error)
	UpdateEvent(ctx context.Context, ev models.Event, remoteID string) error
	DeleteEvent(ctx context.Context, remoteID string) error
}

// EventInput carries the mutable event fields.
type EventInput struct {
	Title          string
	Description    *string
	StartTime      time.Time
	EndTime        *time.Time
	IsRecurring    bool
	RecurrenceRule map[string]any
}

type EventService struct {
	db     *gorm.DB
	mirror CalendarMirror
}

func NewEventService(db *gorm.DB, mirror CalendarMirror) *EventService {
	return &EventService{db: db, mirror: mirror}
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:          in.Title,
		Description:    in.Description,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		IsRecurring:    in.IsRecurring,
		RecurrenceRule: settingsOrEmpty(in.RecurrenceRule),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, storage("create event", err)
	}

	if s.mirror != nil {
		remoteID, err := s.mirror.CreateEvent(ctx, *event)
		if err != nil {
			zap.L().Warn("calendar mirror create failed", zap.Uint("event_id", event.ID), zap.Error(err))
		} else if err := s.db.WithContext(ctx).Model(event).
			Update("calendar_event_id", remoteID).Error; err != nil {
			zap.L().Warn("failed to store calendar event id", zap.Uint("event_id", event.ID), zap.Error(err))
		}
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, notFoundOr("get event", "event", id, err)
	}
	return &event, nil
}

func (s *EventService) List(ctx context.Context, offset, limit int) ([]models.Event, error) {
	var events []models.Event
	if err := window(s.db.WithContext(ctx), offset, limit).Find(&events).Error; err != nil {
		return nil, storage("list events", err)
	}
	return events, nil
}

// Update replaces all mutable fields.
func (s *EventService) Update(ctx context.Context, id uint, in EventInput) (*models.Event, error) {
	if err := validateEventInput(in); err != nil {
		return nil, err
	}

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, notFoundOr("get event", "event", id, err)
	}

	event.Title = in.Title
	event.Description = in.Description
	event.StartTime = in.StartTime
	event.EndTime = in.EndTime
	event.IsRecurring = in.IsRecurring
	event.RecurrenceRule = settingsOrEmpty(in.RecurrenceRule)

	if err := s.db.WithContext(ctx).Save(&event).Error; err != nil {
		return nil, storage("update event", err)
	}

	if s.mirror != nil && event.CalendarEventID != "" {
		if err := s.mirror.UpdateEvent(ctx, event, event.CalendarEventID); err != nil {
			zap.L().Warn("calendar mirror update failed", zap.Uint("event_id", event.ID), zap.Error(err))
		}
	}
	return &event, nil
}

// Delete removes the event and clears the reference on any task or note
// pointing at it. Dependents are never deleted.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	var remoteID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, id).Error; err != nil {
			return notFoundOr("get event", "event", id, err)
		}
		remoteID = event.CalendarEventID

		if err := tx.Model(&models.Task{}).Where("event_id = ?", id).
			Update("event_id", nil).Error; err != nil {
			return storage("detach tasks from event", err)
		}
		if err := tx.Model(&models.Note{}).Where("event_id = ?", id).
			Update("event_id", nil).Error; err != nil {
			return storage("detach notes from event", err)
		}
		if err := tx.Delete(&models.Event{}, id).Error; err != nil {
			return storage("delete event", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.mirror != nil && remoteID != "" {
		if err := s.mirror.DeleteEvent(ctx, remoteID); err != nil {
			zap.L().Warn("calendar mirror delete failed", zap.Uint("event_id", id), zap.Error(err))
		}
	}
	return nil
}

func validateEventInput(in EventInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("event title is required: %w", ErrValidation)
	}
	if in.StartTime.IsZero() {
		return fmt.Errorf("event start_time is required: %w", ErrValidation)
	}
	return nil
}
