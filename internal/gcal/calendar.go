package gcal

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
)

// Reminder overrides applied to every appointment: an email a day ahead
// and a popup shortly before the call.
const (
	emailReminderMinutes = 24 * 60
	popupReminderMinutes = 10
)

// EventSettings holds the fixed fields stamped onto every created event
type EventSettings struct {
	CalendarID     string
	TimeZone       string
	Location       string
	Description    string
	DefaultSummary string
}

// BuildEvent maps a scheduling request onto the Calendar API event schema
func BuildEvent(settings EventSettings, summary, startTime, endTime string) *calendar.Event {
	if summary == "" {
		summary = settings.DefaultSummary
	}

	return &calendar.Event{
		Summary:     summary,
		Location:    settings.Location,
		Description: settings.Description,
		Start: &calendar.EventDateTime{
			DateTime: startTime,
			TimeZone: settings.TimeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: endTime,
			TimeZone: settings.TimeZone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			// UseDefault=false must be sent explicitly, otherwise the API
			// treats the zero value as "not set"
			ForceSendFields: []string{"UseDefault"},
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: emailReminderMinutes},
				{Method: "popup", Minutes: popupReminderMinutes},
			},
		},
	}
}

// Client creates calendar events on behalf of the authorized user
type Client struct {
	manager  *Manager
	settings EventSettings
}

// NewClient creates a new calendar client
func NewClient(manager *Manager, settings EventSettings) *Client {
	return &Client{
		manager:  manager,
		settings: settings,
	}
}

// ScheduleAppointment builds an event from the request fields and inserts
// it into the configured calendar. A single best-effort call, no retries.
func (c *Client) ScheduleAppointment(ctx context.Context, summary, startTime, endTime string) (*calendar.Event, error) {
	svc, err := c.manager.Service(ctx)
	if err != nil {
		return nil, err
	}

	event := BuildEvent(c.settings, summary, startTime, endTime)

	created, err := svc.Events.Insert(c.settings.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}
