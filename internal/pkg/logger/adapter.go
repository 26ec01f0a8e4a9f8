package logger

import (
	"log/slog"

	"yolodash/internal/app/port"
)

// slogAdapter implements port.Logger on top of a slog.Logger.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger writing to the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{l: Get()}
}

// NewAdapter returns a port.Logger writing to l.
func NewAdapter(l *slog.Logger) port.Logger {
	return &slogAdapter{l: l}
}

// Info logs an informational message.
func (a *slogAdapter) Info(msg string, args ...any) {
	a.l.Info(msg, args...)
}

// Debug logs a debug message.
func (a *slogAdapter) Debug(msg string, args ...any) {
	a.l.Debug(msg, args...)
}

// Warn logs a warning.
func (a *slogAdapter) Warn(msg string, args ...any) {
	a.l.Warn(msg, args...)
}

// Error logs an error.
func (a *slogAdapter) Error(msg string, args ...any) {
	a.l.Error(msg, args...)
}

// With returns an adapter carrying args on every record.
func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{l: a.l.With(args...)}
}
