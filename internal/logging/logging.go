// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package logging sets up the structured logger used by the ciff command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config captures logging configuration options.
type Config struct {
	Level  string
	Format string
}

// New creates a logger writing to w.
func New(w io.Writer, cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, handlerOpts)
	case "json":
		h = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(h), nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Warnf adapts logger to the decoder's Warnf option.
func Warnf(logger *slog.Logger, attrs ...any) func(string, ...any) {
	return func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...), attrs...)
	}
}
