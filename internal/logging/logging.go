// Package logging builds the process-wide structured logger. It is also the
// diagnostic sink of last resort: failures that must never surface to
// callers (log-store writes, background dispatch) end up here.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger tagged with the service name. Level accepts
// the usual zerolog names (trace, debug, info, warn, error); anything else
// falls back to info. When pretty is set, output goes through the console
// writer instead of raw JSON.
func New(service, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout)
	if pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05.000Z07:00"})
	}
	return logger.Level(lvl).With().Timestamp().Str("service", service).Logger()
}
