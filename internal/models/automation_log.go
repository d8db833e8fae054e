package models

import (
	"time"

	"gorm.io/datatypes"
)

type LogStatus string

const (
	StatusPending LogStatus = "pending"
	StatusSuccess LogStatus = "success"
	StatusError   LogStatus = "error"
)

// AutomationLog is the audit row for one text-to-card run. It is created
// pending and moved to success or error exactly once.
type AutomationLog struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	InputText     string         `gorm:"type:text;not null" json:"input_text"`
	ProcessedData datatypes.JSON `json:"processed_data"`
	CardID        *uint          `gorm:"index" json:"card_id"`
	Status        LogStatus      `gorm:"size:20;index;not null" json:"status"`
	ErrorMessage  string         `gorm:"type:text" json:"error_message"`
	CreatedAt     time.Time      `json:"created_at"`

	Card *Card `gorm:"foreignKey:CardID" json:"card,omitempty"`
}

func (AutomationLog) TableName() string {
	return "automation_logs"
}
