package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagontorron/needitv1/internal/models"
)

type recordingWriter struct {
	mu      sync.Mutex
	batches [][]models.SystemLog
}

func (w *recordingWriter) WriteLogs(_ context.Context, batch []models.SystemLog) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, batch)
	return nil
}

func (w *recordingWriter) rows() []models.SystemLog {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []models.SystemLog
	for _, b := range w.batches {
		out = append(out, b...)
	}
	return out
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("sink down")
}

func TestDBHandlerKeepsOnlyErrors(t *testing.T) {
	w := &recordingWriter{}
	h := newDBHandler(w, 100, time.Hour)

	var out bytes.Buffer
	logger := slog.New(NewFanout(NewJSONHandler(&out, slog.LevelInfo), h))

	logger.Info("need created", "need_id", "need1")
	logger.Warn("orphaned conversations", "need_id", "need1")
	logger.Error("session save failed",
		"user_id", "1",
		"need_id", "need2",
		"conversation_id", "conv1",
		"request_id", "req-1",
		"error", errors.New("disk full"),
		"attempt", 2,
	)
	h.Stop()

	rows := w.rows()
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "session save failed", row.Message)
	assert.Equal(t, "req-1", row.RequestID)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "1", *row.UserID)
	assert.Equal(t, "need2", *row.NeedID)
	assert.Equal(t, "conv1", *row.ConversationID)
	assert.Equal(t, "disk full", row.Error)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(row.Attrs, &extra))
	assert.Equal(t, float64(2), extra["attempt"])

	// stdout saw all three
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestDBHandlerWithAttrs(t *testing.T) {
	w := &recordingWriter{}
	h := newDBHandler(w, 100, time.Hour)

	logger := slog.New(h).With("request_id", "req-9").WithGroup("http")
	logger.Error("handler failed", "status", 500)
	h.Stop()

	rows := w.rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "req-9", rows[0].RequestID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(rows[0].Attrs, &extra))
	assert.Equal(t, float64(500), extra["http.status"])
}

func TestDBHandlerFlushesFullBatch(t *testing.T) {
	w := &recordingWriter{}
	h := newDBHandler(w, 2, time.Hour)
	logger := slog.New(h)

	logger.Error("one")
	logger.Error("two")

	assert.Eventually(t, func() bool { return len(w.rows()) == 2 }, time.Second, 10*time.Millisecond)
	h.Stop()
	h.Stop()
	assert.Len(t, w.rows(), 2)
}

func TestFanoutContinuesPastFailingHandler(t *testing.T) {
	var out bytes.Buffer
	f := NewFanout(failingHandler{}, NewJSONHandler(&out, slog.LevelInfo))

	err := f.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	require.Error(t, err)
	assert.Contains(t, out.String(), `"msg":"hello"`)
	assert.True(t, f.Enabled(context.Background(), slog.LevelDebug))
}
