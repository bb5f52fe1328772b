// Package store holds the canonical in-memory NeedIt collections: users,
// categories, needs, saved sets, conversations and messages.
//
// All access goes through View and Update. Update runs against a private
// copy of the state and commits it only when the callback returns nil, so a
// failed callback leaves the store untouched. Values handed out by a Tx are
// copies; callers never hold references into the store.
package store

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/yagontorron/needitv1/internal/models"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrExists    = errors.New("store: record already exists")
	ErrReadOnly  = errors.New("store: write in read-only transaction")
	ErrIntegrity = errors.New("store: referential integrity violation")
)

type userRecord struct {
	user         models.User
	passwordHash []byte
}

type state struct {
	users         []userRecord
	categories    []models.Category
	needs         []models.Need // newest first
	conversations []models.Conversation
	messages      []models.Message // append order
	saved         map[string]map[string]struct{}
}

func newState() state {
	return state{saved: map[string]map[string]struct{}{}}
}

func (st state) clone() state {
	out := state{
		users:         make([]userRecord, len(st.users)),
		categories:    slices.Clone(st.categories),
		needs:         make([]models.Need, len(st.needs)),
		conversations: make([]models.Conversation, len(st.conversations)),
		messages:      slices.Clone(st.messages),
		saved:         make(map[string]map[string]struct{}, len(st.saved)),
	}
	for i, u := range st.users {
		out.users[i] = userRecord{user: u.user, passwordHash: slices.Clone(u.passwordHash)}
	}
	for i, n := range st.needs {
		out.needs[i] = n.Clone()
	}
	for i, c := range st.conversations {
		out.conversations[i] = c.Clone()
	}
	for userID, set := range st.saved {
		out.saved[userID] = maps.Clone(set)
	}
	return out
}

type Store struct {
	mu    sync.RWMutex
	state state
	now   func() time.Time

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// New returns an empty store. now defaults to time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		state: newState(),
		now:   now,
		subs:  map[int]func(Event){},
	}
}

// Now is the store clock in epoch milliseconds.
func (s *Store) Now() int64 {
	return s.now().UnixMilli()
}

// View runs fn against the current state under a read lock.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{state: &s.state})
}

// Update runs fn against a copy of the state and commits the copy when fn
// returns nil. Subscribers are notified after the lock is released.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	working := s.state.clone()
	tx := &Tx{state: &working, writable: true}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = working
	events := tx.events
	s.mu.Unlock()

	s.publish(events)
	return nil
}
