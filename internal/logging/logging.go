// Package logging wraps log/slog with the fields every seqsearch run carries.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Logger wraps slog.Logger with seqsearch-specific helpers.
type Logger struct {
	*slog.Logger
}

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

// New creates a Logger writing to w in the given format at level.
func New(w io.Writer, level slog.Level, format string) (*Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
	return &Logger{Logger: slog.New(h)}, nil
}

// WithRunID tags every record with a fresh run id and returns the id.
func (l *Logger) WithRunID() (*Logger, string) {
	id := uuid.NewString()
	return &Logger{Logger: l.Logger.With("run_id", id)}, id
}

// With returns a Logger with extra attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(ctx context.Context, format string, a ...any) {
	l.WarnContext(ctx, fmt.Sprintf(format, a...))
}

// Bytes renders a byte count for log fields, e.g. "3.1 MB".
func Bytes(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// Count renders a count with thousands separators.
func Count[T ~int | ~int64 | ~uint64](n T) string {
	return humanize.Comma(int64(n))
}
