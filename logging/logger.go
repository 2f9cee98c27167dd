// File: logging/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package logging provides a tiny abstraction over slog so the runtime can
// depend on a minimal interface while embedders plug any structured logger.
package logging

import (
	"log/slog"
	"os"
)

// Logger is the minimal logging surface the runtime needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement Logger.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefault returns a text Logger writing to stderr at info level.
func NewDefault() Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return NewSlogAdapter(slog.New(handler))
}

// NopLogger discards all messages. Useful in tests.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}
