package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	enabled = true // flip to false to nuke logs
	logger  = newLogger(os.Stdout)
)

func newLogger(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

func EnableLogging(b bool) {
	enabled = b
}

// SetOutput redirects logs, mostly for tests.
func SetOutput(w io.Writer) {
	logger = newLogger(w)
}

// SetLevel accepts zerolog level names ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func Debug(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Debug().Msgf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Info().Msgf(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Warn().Msgf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	logger.Error().Msgf(msg, v...)
}
