package slogutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelSilent sits above every standard level; nothing is logged at it.
const LevelSilent = slog.Level(100)

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
	"silent":  LevelSilent,
	"off":     LevelSilent,
}

// NewLogger returns a logger writing deadsym log lines to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &Options{Level: level}))
}

// NewDiscardLogger returns a logger that drops everything.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, LevelSilent)
}

// LevelFromString maps a logging.level value to a slog.Level, falling back
// to info for names it does not know.
func LevelFromString(s string) slog.Level {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return level
	}
	return slog.LevelInfo
}

// LevelFromVerbosity maps -v counts to a level: none is warn, -v info,
// -vv and more debug. quiet silences everything.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	switch {
	case quiet:
		return LevelSilent
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Setup describes the logger of one command run.
type Setup struct {
	// Stderr receives log lines; the report owns stdout.
	Stderr io.Writer
	// Verbosity and Quiet come from -v and -q.
	Verbosity int
	Quiet     bool
	// Configured is logging.level from deadsym.toml. It applies only when
	// neither -v nor -q was given.
	Configured string
	// File also receives every line when set. It is appended to.
	File string
}

// Level resolves the effective level.
func (s Setup) Level() slog.Level {
	if s.Verbosity == 0 && !s.Quiet && s.Configured != "" {
		return LevelFromString(s.Configured)
	}
	return LevelFromVerbosity(s.Verbosity, s.Quiet)
}

// Open builds the logger. The returned close func releases the log file
// and is never nil.
func (s Setup) Open() (*slog.Logger, func() error, error) {
	opts := &Options{Level: s.Level()}
	stderr := s.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	console := NewHandler(stderr, opts)
	if s.File == "" {
		return slog.New(console), func() error { return nil }, nil
	}

	f, err := os.OpenFile(s.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", s.File, err)
	}
	return slog.New(fanout{console, NewHandler(f, opts)}), f.Close, nil
}

// fanout hands each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
