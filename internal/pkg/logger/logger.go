// Package logger provides the process-wide slog logger, backed by zap.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// ParseLevel maps a config level string onto a zap level. Unknown strings
// fall back to info.
func ParseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewZap builds the zap logger from the logging config. Debug level uses the
// development encoder; everything else the production JSON encoder. When file
// is set, output goes to that file in addition to stdout.
func NewZap(levelStr, file string) (*zap.Logger, error) {
	level := ParseLevel(levelStr)

	var cfg zap.Config
	if level == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	if file != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, file)
	}
	return cfg.Build()
}

// InitFromZap routes the global slog logger through zapLogger.
func InitFromZap(zapLogger *zap.Logger) {
	handler := zapslog.NewHandler(zapLogger.Core(), zapslog.WithName("yolodash"))
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

func ensureInitialized() {
	if globalLogger == nil {
		globalLogger = slog.Default()
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Debug(msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Log(context.Background(), slog.LevelError, msg, args...)
	os.Exit(1)
}

// Get returns the global slog logger.
func Get() *slog.Logger {
	ensureInitialized()
	return globalLogger
}
