package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func testSettings() EventSettings {
	return EventSettings{
		CalendarID:     "primary",
		TimeZone:       "America/New_York",
		Location:       "Client Call",
		Description:    "Scheduled by voice agent.",
		DefaultSummary: "New AI Agent Consultation",
	}
}

func TestBuildEvent(t *testing.T) {
	event := BuildEvent(testSettings(), "Consult", "2024-01-01T10:00:00", "2024-01-01T11:00:00")

	assert.Equal(t, "Consult", event.Summary)
	assert.Equal(t, "Client Call", event.Location)
	assert.Equal(t, "Scheduled by voice agent.", event.Description)
	assert.Equal(t, "2024-01-01T10:00:00", event.Start.DateTime)
	assert.Equal(t, "America/New_York", event.Start.TimeZone)
	assert.Equal(t, "2024-01-01T11:00:00", event.End.DateTime)
	assert.Equal(t, "America/New_York", event.End.TimeZone)

	require.NotNil(t, event.Reminders)
	assert.False(t, event.Reminders.UseDefault)
	assert.Equal(t, []string{"UseDefault"}, event.Reminders.ForceSendFields)

	require.Len(t, event.Reminders.Overrides, 2)
	assert.Equal(t, "email", event.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(1440), event.Reminders.Overrides[0].Minutes)
	assert.Equal(t, "popup", event.Reminders.Overrides[1].Method)
	assert.Equal(t, int64(10), event.Reminders.Overrides[1].Minutes)
}

func TestBuildEvent_DefaultSummary(t *testing.T) {
	event := BuildEvent(testSettings(), "", "2024-01-01T10:00:00", "2024-01-01T11:00:00")
	assert.Equal(t, "New AI Agent Consultation", event.Summary)
}

func TestClient_ScheduleAppointment(t *testing.T) {
	var inserts int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inserts++

		assert.Equal(t, "POST", r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), "unexpected path %s", r.URL.Path)
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))

		var event calendar.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))

		assert.Equal(t, "Consult", event.Summary)
		assert.Equal(t, "2024-01-01T10:00:00", event.Start.DateTime)
		assert.Equal(t, "2024-01-01T11:00:00", event.End.DateTime)
		require.NotNil(t, event.Reminders)
		require.Len(t, event.Reminders.Overrides, 2)
		assert.Equal(t, "email", event.Reminders.Overrides[0].Method)
		assert.Equal(t, int64(1440), event.Reminders.Overrides[0].Minutes)
		assert.Equal(t, "popup", event.Reminders.Overrides[1].Method)
		assert.Equal(t, int64(10), event.Reminders.Overrides[1].Minutes)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"evt123","htmlLink":"https://calendar.google.com/event?eid=abc","summary":"Consult"}`))
	}))
	defer server.Close()

	store := &fakeStore{
		token: &oauth2.Token{
			AccessToken: "valid-token",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
	}
	manager := NewManager(&oauth2.Config{}, store, testLogger(), option.WithEndpoint(server.URL))
	client := NewClient(manager, testSettings())

	created, err := client.ScheduleAppointment(context.Background(), "Consult", "2024-01-01T10:00:00", "2024-01-01T11:00:00")
	require.NoError(t, err)

	assert.Equal(t, 1, inserts)
	assert.Equal(t, "evt123", created.Id)
	assert.Equal(t, "https://calendar.google.com/event?eid=abc", created.HtmlLink)
}

func TestClient_ScheduleAppointment_NotAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected without a token")
	}))
	defer server.Close()

	manager := NewManager(&oauth2.Config{}, &fakeStore{}, testLogger(), option.WithEndpoint(server.URL))
	client := NewClient(manager, testSettings())

	_, err := client.ScheduleAppointment(context.Background(), "Consult", "2024-01-01T10:00:00", "2024-01-01T11:00:00")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
