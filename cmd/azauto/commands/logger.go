package commands

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// zerologLogger adapts zerolog to automation.Logger.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewLogger creates a console logger writing to w. Verbose enables debug
// output, which includes HTTP request and response logging.
func NewLogger(w io.Writer, verbose bool) automation.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor()}).
		Level(level).
		With().
		Timestamp().
		Str("component", "azauto").
		Logger()

	return &zerologLogger{logger: logger}
}

func (l *zerologLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
