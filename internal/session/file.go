package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yagontorron/needitv1/internal/models"
)

// FileStore keeps the slot as a JSON document on local disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*models.User, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(ctx, "session file unreadable", "path", s.path, "error", err)
		}
		return nil, false
	}
	return decode(ctx, data, s.path)
}

// Save replaces the file atomically: the document is written to a sibling
// temp file which is then renamed over the old one.
func (s *FileStore) Save(ctx context.Context, user *models.User) error {
	if user == nil {
		return s.Clear(ctx)
	}
	data, err := json.Marshal(payload{User: user})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func decode(ctx context.Context, data []byte, source string) (*models.User, bool) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		slog.WarnContext(ctx, "session slot malformed", "source", source, "error", err)
		return nil, false
	}
	if p.User == nil || p.User.ID == "" {
		slog.WarnContext(ctx, "session slot has no user", "source", source)
		return nil, false
	}
	return p.User, true
}
