package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/yagontorron/needitv1/internal/models"
)

//go:embed fixtures/needit.json
var fixturesJSON []byte

// Fixtures is the demo data set. Timestamps are offsets in milliseconds
// before the moment of seeding.
type Fixtures struct {
	Categories    []models.Category     `json:"categories"`
	Users         []FixtureUser         `json:"users"`
	Needs         []FixtureNeed         `json:"needs"`
	Conversations []FixtureConversation `json:"conversations"`
	Messages      []FixtureMessage      `json:"messages"`
}

type FixtureUser struct {
	models.User
	Password  string `json:"password"`
	AgoMillis int64  `json:"ago_ms"`
}

type FixtureNeed struct {
	models.Need
	AgoMillis int64 `json:"ago_ms"`
}

type FixtureConversation struct {
	models.Conversation
	AgoMillis int64 `json:"ago_ms"`
}

type FixtureMessage struct {
	models.Message
	AgoMillis int64 `json:"ago_ms"`
}

// LoadFixtures decodes the embedded demo data.
func LoadFixtures() (*Fixtures, error) {
	var fx Fixtures
	dec := json.NewDecoder(bytes.NewReader(fixturesJSON))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// Seed loads fx into the store in a single Update. Needs are listed newest
// first in fx and keep that order. hashPassword turns fixture passwords into
// stored hashes.
func (s *Store) Seed(fx *Fixtures, hashPassword func(string) ([]byte, error)) error {
	now := s.Now()
	return s.Update(func(tx *Tx) error {
		for _, c := range fx.Categories {
			if err := tx.CreateCategory(c); err != nil {
				return err
			}
		}

		for _, fu := range fx.Users {
			hash, err := hashPassword(fu.Password)
			if err != nil {
				return fmt.Errorf("hash password for user %s: %w", fu.ID, err)
			}
			u := fu.User
			u.CreatedAt = now - fu.AgoMillis
			if _, err := tx.CreateUser(u, hash); err != nil {
				return err
			}
		}

		for i := len(fx.Needs) - 1; i >= 0; i-- {
			fn := fx.Needs[i]
			n := fn.Need
			n.CreatedAt = now - fn.AgoMillis
			n.UpdatedAt = n.CreatedAt
			if n.Status == "" {
				n.Status = models.NeedActive
			}
			if !n.Status.Valid() {
				return fmt.Errorf("need %s: invalid status %q", n.ID, n.Status)
			}
			if _, err := tx.InsertNeed(n); err != nil {
				return err
			}
		}

		for _, fc := range fx.Conversations {
			c := fc.Conversation
			c.CreatedAt = now - fc.AgoMillis
			if _, created, err := tx.FindOrCreateConversation(c); err != nil {
				return err
			} else if !created {
				return fmt.Errorf("conversation %s duplicates an existing need and member pair: %w", c.ID, ErrExists)
			}
		}

		for _, fm := range fx.Messages {
			m := fm.Message
			m.CreatedAt = now - fm.AgoMillis
			if _, err := tx.AppendMessage(m); err != nil {
				return err
			}
		}
		return nil
	})
}
