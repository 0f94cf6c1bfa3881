// Package logging configures the zerolog logger shared by the clewn
// components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Options selects the log destination and verbosity.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string

	// File is an optional log file; empty logs to stderr through a
	// console writer.
	File string

	// NoColor disables console colors.
	NoColor bool
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// New builds a logger from opts. When a file is configured the returned
// logger writes JSON lines to it; the file stays open for the lifetime
// of the process.
func New(opts Options) (zerolog.Logger, error) {
	level, ok := ParseLevel(opts.Level)
	if !ok {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", opts.Level)
	}

	var w io.Writer
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		w = f
	} else {
		w = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: opts.NoColor}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
