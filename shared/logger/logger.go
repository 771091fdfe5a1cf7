package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the process logger. Production output is JSON; every other
// environment gets a human-readable console writer.
func New(environment, level string) *zerolog.Logger {
	return newWithWriter(environment, level, os.Stdout)
}

func newWithWriter(environment, level string, w io.Writer) *zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if environment != "production" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "auth-service").
		Logger()

	return &l
}
