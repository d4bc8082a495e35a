// Package logging sets up the structured diagnostic log.
//
// The chat UI owns the terminal, so diagnostics go to a JSON log file
// instead of stdout.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type ctxKey string

const ctxKeyEntryID ctxKey = "entry_id"

// New opens path for appending and returns a JSON logger writing to it.
// The returned closer must be called on shutdown.
func New(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewWithWriter(f, level), f, nil
}

// NewWithWriter returns a JSON logger writing to w
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// WithSession tags every record with the chat session id
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	return logger.With("session_id", sessionID)
}

// WithEntryID stores the transcript entry id a request settles.
func WithEntryID(ctx context.Context, entryID string) context.Context {
	return context.WithValue(ctx, ctxKeyEntryID, entryID)
}

// FromContext adds entry_id to logger if ctx carries one.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id, _ := ctx.Value(ctxKeyEntryID).(string)
	if id == "" {
		return logger
	}
	return logger.With("entry_id", id)
}
