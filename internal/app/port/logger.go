package port

// Logger is the structured logging interface used by the app layer.
// Arguments are alternating key/value pairs, as with log/slog.
type Logger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a Logger that prepends args to every record.
	With(args ...any) Logger
}
