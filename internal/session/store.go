// Package session persists the signed-in user across restarts in a single
// "user" slot.
package session

import (
	"context"

	"github.com/yagontorron/needitv1/internal/models"
)

// SlotKey names the single persisted slot.
const SlotKey = "user"

// Store is the session slot. Load never fails: a missing or unreadable slot
// is reported as no session.
type Store interface {
	Load(ctx context.Context) (*models.User, bool)
	Save(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}

type payload struct {
	User *models.User `json:"user"`
}
