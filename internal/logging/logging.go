// Package logging configures the global zerolog logger used across the module.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w. Pretty selects the human readable console
// format, otherwise each event is one JSON line.
func New(w io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// Configure replaces the global logger with one writing to stderr
func Configure(level string, pretty bool) error {
	logger, err := New(os.Stderr, level, pretty)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = logger
	return nil
}

// ParseLevel accepts zerolog level names; an empty string means info
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
