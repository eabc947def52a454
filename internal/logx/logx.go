// Package logx builds the zerolog loggers used by the CLI and handed to
// the scheduling engine.
package logx

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05.000"

// New returns a logger writing to w at level. format is "text" for a
// human-readable console writer or "json" for one JSON object per line.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "console":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	case "json":
		out = w
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "", "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "OFF", "DISABLED":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
