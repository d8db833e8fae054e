package integrations

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chxlky/trello-card-automation/internal/models"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type CalendarConfig struct {
	CalendarID string
	// ServiceAccountJSON holds the service account key file contents.
	ServiceAccountJSON []byte
	// Endpoint and HTTPClient bypass service account auth when set.
	Endpoint   string
	HTTPClient *http.Client
}

type CalendarClient struct {
	service    *calendar.Service
	calendarID string
}

func NewCalendarClient(ctx context.Context, cfg CalendarConfig) (*CalendarClient, error) {
	if cfg.CalendarID == "" {
		return nil, errors.New("google calendar ID is not configured")
	}

	var opts []option.ClientOption
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	} else {
		// create credentials from JSON data
		config, err := google.JWTConfigFromJSON(cfg.ServiceAccountJSON, calendar.CalendarScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account credentials from JSON: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(config.Client(ctx)))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	srv, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	return &CalendarClient{service: srv, calendarID: cfg.CalendarID}, nil
}

// CreateEvent adds an all-day event on the card's due date and returns the event id.
func (c *CalendarClient) CreateEvent(ctx context.Context, card *models.Card) (string, error) {
	if card.DueDate == nil {
		return "", fmt.Errorf("card does not have a due date, cannot create event")
	}

	event := &calendar.Event{
		Summary:     card.Name,
		Description: fmt.Sprintf("Trello Card: %s", card.URL),
		Start: &calendar.EventDateTime{
			Date: card.DueDate.Format("2006-01-02"),
		},
		End: &calendar.EventDateTime{
			Date: card.DueDate.AddDate(0, 0, 1).Format("2006-01-02"), // all-day event ends the next day
		},
	}

	createdEvent, err := c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create event in Google Calendar: %w", err)
	}

	return createdEvent.Id, nil
}
