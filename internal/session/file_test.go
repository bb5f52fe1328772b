package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagontorron/needitv1/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "session.json"))

	_, ok := s.Load(ctx)
	assert.False(t, ok, "no file yet")

	u := &models.User{ID: "1", Email: "user@example.com", DisplayName: "John Doe", Location: "Madrid, Spain", CreatedAt: 1700000000000}
	require.NoError(t, s.Save(ctx, u))

	got, ok := s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, u, got)

	u.DisplayName = "John"
	require.NoError(t, s.Save(ctx, u))
	got, ok = s.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "John", got.DisplayName)
}

func TestFileStoreDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)
	require.NoError(t, s.Save(context.Background(), &models.User{ID: "2", Email: "a@b.c", DisplayName: "A"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"2","email":"a@b.c","display_name":"A","created_at":0}}`, string(data))
}

func TestFileStoreMalformedIsNoSession(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"no user", `{"other":1}`},
		{"user without id", `{"user":{"email":"x@y.z"}}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			u, ok := NewFileStore(path).Load(ctx)
			assert.False(t, ok)
			assert.Nil(t, u)
		})
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save(ctx, &models.User{ID: "1"}))
	require.NoError(t, s.Clear(ctx))
	_, ok := s.Load(ctx)
	assert.False(t, ok)

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	// clearing twice is fine
	require.NoError(t, s.Clear(ctx))

	require.NoError(t, s.Save(ctx, &models.User{ID: "1"}))
	require.NoError(t, s.Save(ctx, nil))
	_, ok = s.Load(ctx)
	assert.False(t, ok)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "session.json"))
	require.NoError(t, s.Save(context.Background(), &models.User{ID: "1"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}
