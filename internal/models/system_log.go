package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SystemLog is an ERROR+ log record kept in postgres for later inspection.
type SystemLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Timestamp      time.Time      `gorm:"not null;index" json:"timestamp"`
	Level          string         `gorm:"size:10;not null;index" json:"level"`
	Message        string         `gorm:"type:text" json:"message"`
	RequestID      string         `gorm:"size:64;index" json:"request_id"`
	UserID         *string        `gorm:"size:64;index" json:"user_id"`
	NeedID         *string        `gorm:"size:64" json:"need_id"`
	ConversationID *string        `gorm:"size:64" json:"conversation_id"`
	Error          string         `gorm:"type:text" json:"error"`
	Attrs          datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"attrs"`
	CreatedAt      time.Time      `json:"created_at"`
}
