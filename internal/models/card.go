package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card mirrors a card this service created on the board.
type Card struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	TrelloID    string                      `gorm:"uniqueIndex;size:100;not null" json:"trello_card_id"`
	Name        string                      `gorm:"size:200" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	ListName    string                      `gorm:"size:100" json:"list_name"`
	Labels      datatypes.JSONSlice[string] `json:"labels"`
	DueDate     *time.Time                  `json:"due_date"`
	URL         string                      `json:"url"`
	EventID     string                      `json:"event_id,omitempty"` // Google Calendar Event ID
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Card) TableName() string {
	return "trello_cards"
}
