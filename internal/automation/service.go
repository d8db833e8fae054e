// Package automation runs the text-to-card pipeline: extract fields, resolve
// the target list, create the card, and record the run in the audit log.
package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chxlky/trello-card-automation/database"
	"github.com/chxlky/trello-card-automation/internal/extractor"
	"github.com/chxlky/trello-card-automation/internal/models"
	"go.uber.org/zap"
)

const DefaultListName = "To Do"

var ErrListNotFound = errors.New("not found in Trello board")

// Board is the part of the board API the pipeline needs.
type Board interface {
	GetLists(ctx context.Context) ([]models.TrelloList, error)
	GetLabels(ctx context.Context) ([]models.TrelloLabel, error)
	ResolveListID(ctx context.Context, name string) (string, bool, error)
	CreateCard(ctx context.Context, card models.CardRequest) (*models.TrelloCard, error)
}

// Calendar mirrors dated cards as calendar events.
type Calendar interface {
	CreateEvent(ctx context.Context, card *models.Card) (string, error)
}

type CreateCardResult struct {
	Success       bool              `json:"success"`
	CardID        string            `json:"card_id,omitempty"`
	CardName      string            `json:"card_name,omitempty"`
	CardURL       string            `json:"card_url,omitempty"`
	ProcessedData *extractor.Fields `json:"processed_data,omitempty"`
	Error         string            `json:"error,omitempty"`
	LogID         uint              `json:"log_id"`
}

type ConnectionResult struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Lists   []models.TrelloList `json:"lists,omitempty"`
	Error   string              `json:"error,omitempty"`
}

type Service struct {
	extractor *extractor.Extractor
	board     Board
	store     *database.Store
	calendar  Calendar
}

type Option func(*Service)

// WithCalendar enables mirroring dated cards to a calendar.
func WithCalendar(c Calendar) Option {
	return func(s *Service) {
		s.calendar = c
	}
}

func NewService(ext *extractor.Extractor, board Board, store *database.Store, opts ...Option) *Service {
	s := &Service{
		extractor: ext,
		board:     board,
		store:     store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateCardFromText(ctx context.Context, text, listName string) CreateCardResult {
	// A started run always reaches a terminal log status.
	ctx = context.WithoutCancel(ctx)

	entry, err := s.store.CreateLog(ctx, text)
	if err != nil {
		zap.L().Error("Error creating automation log", zap.Error(err))
		return CreateCardResult{Success: false, Error: err.Error()}
	}

	card, fields, err := s.run(ctx, entry, text, listName)
	if err != nil {
		zap.L().Error("Error creating Trello card", zap.Uint("logID", entry.ID), zap.Error(err))
		if markErr := s.store.MarkError(ctx, entry, err.Error()); markErr != nil {
			zap.L().Error("Error recording automation failure", zap.Uint("logID", entry.ID), zap.Error(markErr))
		}
		return CreateCardResult{Success: false, Error: err.Error(), LogID: entry.ID}
	}

	zap.L().Info("Successfully created Trello card", zap.String("cardID", card.TrelloID), zap.Uint("logID", entry.ID))

	s.mirrorToCalendar(ctx, card)

	return CreateCardResult{
		Success:       true,
		CardID:        card.TrelloID,
		CardName:      card.Name,
		CardURL:       card.URL,
		ProcessedData: fields,
		LogID:         entry.ID,
	}
}

func (s *Service) run(ctx context.Context, entry *models.AutomationLog, text, listName string) (*models.Card, *extractor.Fields, error) {
	zap.L().Info("Processing text with AI", zap.String("text", preview(text, 50)))
	res := s.extractor.Process(ctx, text)
	if res.Fallback {
		zap.L().Warn("Using fallback card fields", zap.Uint("logID", entry.ID), zap.Error(res.Reason))
	}
	fields := res.Fields

	if err := s.store.SaveProcessedData(ctx, entry, fields); err != nil {
		return nil, nil, err
	}

	listID, ok, err := s.board.ResolveListID(ctx, listName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up list %q: %w", listName, err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("list '%s' %w", listName, ErrListNotFound)
	}

	request := models.CardRequest{
		Name:        fields.Title,
		Description: fields.Description,
		ListID:      listID,
		Labels:      fields.Labels,
	}
	if fields.DueDate != nil {
		request.DueDate = *fields.DueDate
	}

	zap.L().Info("Creating Trello card", zap.String("name", request.Name))
	created, err := s.board.CreateCard(ctx, request)
	if err != nil {
		return nil, nil, err
	}

	card := &models.Card{
		TrelloID:    created.ID,
		Name:        created.Name,
		Description: created.Description,
		ListName:    listName,
		Labels:      fields.Labels,
		DueDate:     parseDueDate(fields.DueDate),
		URL:         created.URL,
	}
	if err := s.store.RecordSuccess(ctx, entry, card); err != nil {
		return nil, nil, err
	}

	return card, &fields, nil
}

func (s *Service) mirrorToCalendar(ctx context.Context, card *models.Card) {
	if s.calendar == nil || card.DueDate == nil {
		return
	}

	eventID, err := s.calendar.CreateEvent(ctx, card)
	if err != nil {
		zap.L().Warn("Error creating calendar event from card", zap.String("cardID", card.TrelloID), zap.Error(err))
		return
	}
	if err := s.store.SetCardEventID(ctx, card, eventID); err != nil {
		zap.L().Warn("Error storing calendar event id", zap.String("cardID", card.TrelloID), zap.Error(err))
		return
	}
	zap.L().Info("Created calendar event", zap.String("cardID", card.TrelloID), zap.String("eventID", eventID))
}

// GetBoardLists returns the board's lists, or an empty slice if they cannot be fetched.
func (s *Service) GetBoardLists(ctx context.Context) []models.TrelloList {
	lists, err := s.board.GetLists(ctx)
	if err != nil {
		zap.L().Error("Error getting board lists", zap.Error(err))
		return []models.TrelloList{}
	}
	if lists == nil {
		return []models.TrelloList{}
	}
	return lists
}

// GetBoardLabels returns the board's labels, or an empty slice if they cannot be fetched.
func (s *Service) GetBoardLabels(ctx context.Context) []models.TrelloLabel {
	labels, err := s.board.GetLabels(ctx)
	if err != nil {
		zap.L().Error("Error getting board labels", zap.Error(err))
		return []models.TrelloLabel{}
	}
	if labels == nil {
		return []models.TrelloLabel{}
	}
	return labels
}

func (s *Service) TestConnection(ctx context.Context) ConnectionResult {
	lists, err := s.board.GetLists(ctx)
	if err != nil {
		return ConnectionResult{Success: false, Error: err.Error()}
	}

	summaries := make([]models.TrelloList, 0, len(lists))
	for _, l := range lists {
		summaries = append(summaries, models.TrelloList{ID: l.ID, Name: l.Name})
	}
	return ConnectionResult{
		Success: true,
		Message: fmt.Sprintf("Connected successfully. Found %d lists.", len(lists)),
		Lists:   summaries,
	}
}

func parseDueDate(due *string) *time.Time {
	if due == nil {
		return nil
	}
	t, err := time.Parse("2006-01-02", *due)
	if err != nil {
		return nil
	}
	return &t
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
