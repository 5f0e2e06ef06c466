// Package logging wires slog to the console and a rotating weekly log file.
package logging

import (
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

// InitLogger initializes the global logger instance
func InitLogger(logDir string, retentionWeeks int, maxFileSize int64) {
	defaultLogger = SetupLogger(logDir, retentionWeeks, maxFileSize)
	slog.SetDefault(defaultLogger)
}

// Logger returns the configured logger, falling back to a console logger when
// InitLogger has not run yet (early startup, tests).
func Logger() *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Package-level helpers for direct access

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
