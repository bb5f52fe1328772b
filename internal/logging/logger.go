// Package logging configures slog for the server: JSON to stdout, optionally
// fanned out to a postgres sink for ERROR+ records.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// NewJSONHandler is the stdout handler every configuration starts from.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Setup installs the JSON stdout logger as the slog default, fanned out to
// any extra handlers.
func Setup(extra ...slog.Handler) {
	var h slog.Handler = NewJSONHandler(os.Stdout, slog.LevelInfo)
	if len(extra) > 0 {
		h = NewFanout(append([]slog.Handler{h}, extra...)...)
	}
	slog.SetDefault(slog.New(h))
}
