// Package logging builds the zerolog loggers used by agenda.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "15:04:05"

// New returns a console logger writing to w at the named level. Unknown
// levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	zerolog.ErrorFieldName = "err"

	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	if f, ok := w.(*os.File); !ok || !ColorEnabled(f) {
		cw.NoColor = true
	}
	return zerolog.New(cw).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Stderr is New(os.Stderr, level).
func Stderr(level string) zerolog.Logger {
	return New(os.Stderr, level)
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// CronLogger adapts a zerolog logger to robfig/cron's Logger interface.
type CronLogger struct {
	Log zerolog.Logger
}

// Info logs routine scheduler activity at debug level.
func (c CronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.Log.Debug().Fields(keysAndValues).Msg(msg)
}

// Error logs scheduler failures.
func (c CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.Log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
