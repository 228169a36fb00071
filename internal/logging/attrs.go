package logging

import (
	"context"
	"log/slog"
	"time"
)

// Attr is the attribute type accepted by the helpers below.
type Attr = slog.Attr

func Duration(key string, v time.Duration) Attr { return slog.Duration(key, v) }

func Int(key string, v int) Attr { return slog.Int(key, v) }

func Int64(key string, v int64) Attr { return slog.Int64(key, v) }

func String(key, v string) Attr { return slog.String(key, v) }

// Error wraps err for the k=v tail. A nil error renders as "<nil>".
func Error(err error) Attr {
	if err != nil {
		return slog.Any("error", err)
	}
	return slog.String("error", "<nil>")
}

// FieldComponent tags log lines with the subsystem that emitted them. The
// console handler folds it into the line prefix instead of the k=v tail.
const FieldComponent = "component"

// NewComponentLogger tags every record from the returned logger with the
// component name. A nil base falls back to the no-op logger.
func NewComponentLogger(base *slog.Logger, component string) *slog.Logger {
	if base == nil {
		base = NewNop()
	}
	return base.With(String(FieldComponent, component))
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

type noopHandler struct{}

func (noopHandler) Enabled(_ context.Context, _ slog.Level) bool { return false }

func (noopHandler) Handle(_ context.Context, _ slog.Record) error { return nil }

func (noopHandler) WithAttrs(_ []slog.Attr) slog.Handler { return noopHandler{} }

func (noopHandler) WithGroup(_ string) slog.Handler { return noopHandler{} }
