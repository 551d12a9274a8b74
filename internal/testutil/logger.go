package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogEntry is one captured log record with its attributes flattened
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record, for tests that
// assert on diagnostics
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	attrs   []slog.Attr
}

// NewLogRecorder creates an empty recorder
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

// Logger returns a logger writing to the recorder
func (h *LogRecorder) Logger() *slog.Logger {
	return slog.New(h)
}

// Entries returns the captured records at or above level
func (h *LogRecorder) Entries(level slog.Level) []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []LogEntry
	for _, e := range *h.entries {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}

func (h *LogRecorder) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{Level: r.Level, Message: r.Message, Attrs: make(map[string]any)}
	for _, a := range h.attrs {
		entry.Attrs[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	h.mu.Lock()
	*h.entries = append(*h.entries, entry)
	h.mu.Unlock()
	return nil
}

func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup is not needed by the code under test; groups are flattened
func (h *LogRecorder) WithGroup(string) slog.Handler {
	return h
}
