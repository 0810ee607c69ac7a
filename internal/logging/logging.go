package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// New returns a slog logger rendering through charmbracelet/log on w.
func New(w io.Writer, level string) (*slog.Logger, error) {
	parsed, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           parsed,
		Prefix:          "acs",
		ReportTimestamp: true,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

func parseLevel(level string) (charmlog.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return charmlog.InfoLevel, nil
	}

	parsed, err := charmlog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return parsed, nil
}
