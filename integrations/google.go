package integrations

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mkravets/taskboard/internal/models"
)

// CalendarClient mirrors event rows into a Google Calendar using a
// service-account credential.
type CalendarClient struct {
	service    *calendar.Service
	calendarID string
}

func NewCalendarClient(ctx context.Context, credentialsFile, calendarID string) (*CalendarClient, error) {
	jsonBytes, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(jsonBytes, calendar.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials from JSON: %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	return &CalendarClient{service: srv, calendarID: calendarID}, nil
}

// CreateEvent inserts a mirror of ev and returns the remote event id.
func (c *CalendarClient) CreateEvent(ctx context.Context, ev models.Event) (string, error) {
	created, err := c.service.Events.Insert(c.calendarID, toCalendarEvent(ev)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create event in Google Calendar: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent rewrites the remote mirror of ev.
func (c *CalendarClient) UpdateEvent(ctx context.Context, ev models.Event, remoteID string) error {
	remote, err := c.service.Events.Get(c.calendarID, remoteID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve event from Google Calendar: %w", err)
	}

	fresh := toCalendarEvent(ev)
	remote.Summary = fresh.Summary
	remote.Description = fresh.Description
	remote.Start = fresh.Start
	remote.End = fresh.End

	if _, err := c.service.Events.Update(c.calendarID, remote.Id, remote).Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to update event in Google Calendar: %w", err)
	}
	return nil
}

// DeleteEvent removes the remote mirror. An already-deleted remote event
// is not an error.
func (c *CalendarClient) DeleteEvent(ctx context.Context, remoteID string) error {
	err := c.service.Events.Delete(c.calendarID, remoteID).Context(ctx).Do()
	if err != nil {
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 404 {
			zap.L().Info("Event not found in Google Calendar. Already deleted.", zap.String("remoteID", remoteID))
			return nil
		}
		return fmt.Errorf("unable to delete event from Google Calendar: %w", err)
	}
	return nil
}

func toCalendarEvent(ev models.Event) *calendar.Event {
	var description string
	if ev.Description != nil {
		description = *ev.Description
	}

	end := ev.StartTime.Add(time.Hour)
	if ev.EndTime != nil {
		end = *ev.EndTime
	}

	return &calendar.Event{
		Summary:     ev.Title,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: ev.StartTime.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
}
