package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chxlky/trello-card-automation/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestCalendarCreateEvent(t *testing.T) {
	type captured struct {
		path  string
		event calendar.Event
	}
	requests := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c captured
		c.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&c.event)
		requests <- c
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(calendar.Event{Id: "evt1", Summary: c.event.Summary})
	}))
	defer srv.Close()

	client, err := NewCalendarClient(context.Background(), CalendarConfig{
		CalendarID: "ops@example.com",
		Endpoint:   srv.URL + "/",
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)

	due := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	id, err := client.CreateEvent(context.Background(), &models.Card{
		Name:    "Paper pickup",
		URL:     "https://trello.com/c/abc",
		DueDate: &due,
	})
	require.NoError(t, err)

	got := <-requests
	assert.Equal(t, "evt1", id)
	assert.Equal(t, "/calendars/ops@example.com/events", got.path)
	assert.Equal(t, "Paper pickup", got.event.Summary)
	require.NotNil(t, got.event.Start)
	assert.Equal(t, "2026-01-30", got.event.Start.Date)
	assert.Equal(t, "2026-01-31", got.event.End.Date)
}

func TestCalendarCreateEventRequiresDueDate(t *testing.T) {
	client, err := NewCalendarClient(context.Background(), CalendarConfig{
		CalendarID: "ops@example.com",
		Endpoint:   "http://127.0.0.1:0/",
		HTTPClient: http.DefaultClient,
	})
	require.NoError(t, err)

	_, err = client.CreateEvent(context.Background(), &models.Card{Name: "no due"})
	assert.Error(t, err)
}

func TestNewCalendarClientRequiresCalendarID(t *testing.T) {
	_, err := NewCalendarClient(context.Background(), CalendarConfig{})
	assert.Error(t, err)
}
