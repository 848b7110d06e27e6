package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// newLogger builds a slog logger backed by charmbracelet/log.
// Formats: text (logfmt), json, pretty (colored console output).
func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}

	opts := charmlog.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}
	switch strings.ToLower(format) {
	case "text":
		opts.Formatter = charmlog.LogfmtFormatter
	case "json":
		opts.Formatter = charmlog.JSONFormatter
	case "pretty":
		opts.Formatter = charmlog.TextFormatter
		opts.TimeFormat = "15:04:05"
	default:
		return nil, fmt.Errorf("invalid log format %q: must be one of text, json, pretty", format)
	}
	return slog.New(charmlog.NewWithOptions(w, opts)), nil
}
