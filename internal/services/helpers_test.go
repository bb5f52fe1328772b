package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yagontorron/needitv1/internal/models"
	"github.com/yagontorron/needitv1/internal/store"
)

// steppingClock advances one millisecond per reading.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func cheapHash(p string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	clock := &steppingClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	st := store.New(clock.Now)
	fx, err := store.LoadFixtures()
	require.NoError(t, err)
	require.NoError(t, st.Seed(fx, cheapHash))
	return st
}

// memSession is an in-memory session.Store.
type memSession struct {
	mu      sync.Mutex
	user    *models.User
	saves   int
	clears  int
	failing bool
}

func (m *memSession) Load(context.Context) (*models.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, false
	}
	u := *m.user
	return &u, true
}

func (m *memSession) Save(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.failing {
		return errors.New("keychain unavailable")
	}
	cp := *u
	m.user = &cp
	return nil
}

func (m *memSession) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.failing {
		return errors.New("keychain unavailable")
	}
	m.user = nil
	return nil
}
