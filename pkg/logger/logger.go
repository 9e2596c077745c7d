package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logger = zerolog.Nop()

// Init configures the global logger. Diagnostics go to stderr so they never
// interleave with command output.
func Init(level string) {
	InitWithWriter(level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// InitWithWriter configures the global logger with a custom writer
func InitWithWriter(level string, w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(w)
	logger = log.With().Caller().Logger()
}

// GetLogger returns the configured logger, a no-op logger before Init
func GetLogger() *zerolog.Logger {
	return &logger
}
