// Package logger provides structured logging for the stall server.
// Everything the simulation decides should be traceable through this.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the small surface the rest of the server uses.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a console logger writing to stdout.
func NewLogger() *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.zl.Error().Msg(msg)
}

// Event logs a simulation event with its subject for audit.
func (l *Logger) Event(eventType string, subjectID string, details string) {
	l.zl.Info().
		Str("event", eventType).
		Str("subject", subjectID).
		Msg(details)
}
