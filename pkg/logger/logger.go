// Package logger configures the process-wide zerolog logger. Every package
// logs through the zerolog global, so Setup must run before anything else.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level accepts the zerolog level names (debug, info, warn, error).
	Level string
	// Pretty switches to the human-readable console writer for local runs.
	Pretty bool
}

func Setup(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr)
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	log.Logger = logger.Level(level).With().Timestamp().Logger()
}
