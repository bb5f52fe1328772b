package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionSlot is one persisted key-value slot. NeedIt only uses the "user"
// key, holding the signed-in User as JSON.
type SessionSlot struct {
	Key       string         `gorm:"size:64;primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (SessionSlot) TableName() string {
	return "session_slots"
}
