package logger

import (
	"io"

	corelogger "github.com/kilianp07/liftsim/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger discards everything.
type NopLogger = corelogger.NopLogger

// New returns a Logger for the given component. The output format is
// selected via the APP_ENV variable and the level via LOG_LEVEL.
func New(component string) Logger {
	return NewZerologLogger(component)
}

// NewTo returns a JSON Logger for component writing to w at the configured level.
func NewTo(w io.Writer, component string) Logger {
	return NewZerologLoggerTo(w, component, levelFromEnv())
}
