package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger. APP_ENV=dev (or development) gets a
// human-friendly console writer; anything else logs JSON for ingestion.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
