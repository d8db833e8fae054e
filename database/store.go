package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chxlky/trello-card-automation/internal/models"
	"gorm.io/gorm"
)

// Store reads and writes the card mirror and the automation audit trail.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateLog(ctx context.Context, inputText string) (*models.AutomationLog, error) {
	entry := &models.AutomationLog{
		InputText:     inputText,
		ProcessedData: []byte("{}"),
		Status:        models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create automation log: %w", err)
	}
	return entry, nil
}

// SaveProcessedData stores the extracted fields on a pending log row.
func (s *Store) SaveProcessedData(ctx context.Context, entry *models.AutomationLog, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode processed data: %w", err)
	}
	entry.ProcessedData = raw
	if err := s.db.WithContext(ctx).Model(entry).Update("processed_data", entry.ProcessedData).Error; err != nil {
		return fmt.Errorf("failed to save processed data for log %d: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) SetCardEventID(ctx context.Context, card *models.Card, eventID string) error {
	card.EventID = eventID
	if err := s.db.WithContext(ctx).Model(card).Update("event_id", eventID).Error; err != nil {
		return fmt.Errorf("failed to store event id for card %s: %w", card.TrelloID, err)
	}
	return nil
}

// RecordSuccess persists the card and closes the log row as success in one
// transaction, so a card row never exists without its successful run.
func (s *Store) RecordSuccess(ctx context.Context, entry *models.AutomationLog, card *models.Card) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(card).Error; err != nil {
			return fmt.Errorf("failed to save card %s: %w", card.TrelloID, err)
		}
		err := tx.Model(entry).Updates(map[string]any{
			"card_id": card.ID,
			"status":  models.StatusSuccess,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to mark log %d as success: %w", entry.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	entry.CardID = &card.ID
	entry.Card = card
	entry.Status = models.StatusSuccess
	return nil
}

func (s *Store) MarkError(ctx context.Context, entry *models.AutomationLog, message string) error {
	entry.Status = models.StatusError
	entry.ErrorMessage = message
	err := s.db.WithContext(ctx).Model(entry).Updates(map[string]any{
		"status":        models.StatusError,
		"error_message": message,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to mark log %d as error: %w", entry.ID, err)
	}
	return nil
}

func (s *Store) GetLog(ctx context.Context, id uint) (*models.AutomationLog, error) {
	var entry models.AutomationLog
	if err := s.db.WithContext(ctx).Preload("Card").First(&entry, id).Error; err != nil {
		return nil, fmt.Errorf("failed to load automation log %d: %w", id, err)
	}
	return &entry, nil
}

func (s *Store) GetCardByTrelloID(ctx context.Context, trelloID string) (*models.Card, error) {
	var card models.Card
	if err := s.db.WithContext(ctx).Where("trello_id = ?", trelloID).First(&card).Error; err != nil {
		return nil, fmt.Errorf("failed to load card %s: %w", trelloID, err)
	}
	return &card, nil
}
