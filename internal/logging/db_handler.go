package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yagontorron/needitv1/internal/models"
)

const (
	defaultBatchSize     = 50
	defaultFlushInterval = 5 * time.Second
)

// LogWriter persists a batch of log rows.
type LogWriter interface {
	WriteLogs(ctx context.Context, batch []models.SystemLog) error
}

type GormLogWriter struct {
	DB *gorm.DB
}

func (w GormLogWriter) WriteLogs(ctx context.Context, batch []models.SystemLog) error {
	return w.DB.WithContext(ctx).CreateInBatches(batch, defaultBatchSize).Error
}

type buffer struct {
	writer    LogWriter
	batchSize int

	mu      sync.Mutex
	pending []models.SystemLog

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// DBHandler is a slog.Handler that buffers ERROR+ records and writes them in
// batches, on a timer or whenever a batch fills up.
type DBHandler struct {
	buf    *buffer
	attrs  []slog.Attr
	prefix string
}

func NewDBHandler(w LogWriter) *DBHandler {
	return newDBHandler(w, defaultBatchSize, defaultFlushInterval)
}

func newDBHandler(w LogWriter, batchSize int, interval time.Duration) *DBHandler {
	b := &buffer{
		writer:    w,
		batchSize: batchSize,
		pending:   make([]models.SystemLog, 0, batchSize),
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
	}
	b.wg.Add(1)
	go b.loop()
	return &DBHandler{buf: b}
}

func (b *buffer) loop() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ticker.C:
			b.flush()
		case <-b.done:
			b.flush()
			return
		}
	}
}

func (b *buffer) flush() {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.pending
	b.pending = make([]models.SystemLog, 0, b.batchSize)
	b.mu.Unlock()

	// Warn stays below this handler's threshold, so a failing sink cannot
	// feed itself.
	if err := b.writer.WriteLogs(context.Background(), batch); err != nil {
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

func (b *buffer) add(entry models.SystemLog) {
	b.mu.Lock()
	b.pending = append(b.pending, entry)
	full := len(b.pending) >= b.batchSize
	b.mu.Unlock()

	if full {
		go b.flush()
	}
}

// Stop flushes what is buffered and ends the background loop. It blocks
// until the final write returns.
func (h *DBHandler) Stop() {
	h.buf.stopOnce.Do(func() {
		h.buf.ticker.Stop()
		close(h.buf.done)
	})
	h.buf.wg.Wait()
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	extra := map[string]any{}
	apply := func(a slog.Attr) bool {
		h.route(&entry, extra, a)
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Attrs = datatypes.JSON(b)
		}
	}

	h.buf.add(entry)
	return nil
}

func (h *DBHandler) route(entry *models.SystemLog, extra map[string]any, a slog.Attr) {
	if h.prefix != "" {
		extra[h.prefix+a.Key] = a.Value.Resolve().Any()
		return
	}
	v := a.Value.Resolve()
	switch a.Key {
	case "request_id":
		entry.RequestID = v.String()
	case "user_id":
		entry.UserID = ptr(v.String())
	case "need_id":
		entry.NeedID = ptr(v.String())
	case "conversation_id":
		entry.ConversationID = ptr(v.String())
	case "error":
		entry.Error = v.String()
	default:
		if v.Kind() == slog.KindAny {
			if err, ok := v.Any().(error); ok {
				extra[a.Key] = err.Error()
				return
			}
		}
		extra[a.Key] = v.Any()
	}
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &out
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}

func ptr(s string) *string { return &s }
