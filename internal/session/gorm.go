package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yagontorron/needitv1/internal/models"
)

// GormStore keeps the slot as a row in the session_slots table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context) (*models.User, bool) {
	var slot models.SessionSlot
	err := s.db.WithContext(ctx).First(&slot, "key = ?", SlotKey).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.WarnContext(ctx, "session slot query failed", "error", err)
		}
		return nil, false
	}
	return decode(ctx, slot.Value, "session_slots")
}

func (s *GormStore) Save(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(payload{User: user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	slot := models.SessionSlot{
		Key:       SlotKey,
		Value:     datatypes.JSON(data),
		UpdatedAt: time.Now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("save session slot: %w", err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Delete(&models.SessionSlot{}, "key = ?", SlotKey).Error; err != nil {
		return fmt.Errorf("clear session slot: %w", err)
	}
	return nil
}
