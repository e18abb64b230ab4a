package utils

import (
	"os"

	"github.com/rs/zerolog"
)

// InitLogger sets up the application logger: console writer to stdout.
func InitLogger() zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	return zerolog.New(cw).With().Timestamp().Logger()
}
