package generator

import (
	"io"

	"github.com/charmbracelet/log"
)

// Logger receives progress and error lines. *log.Logger from
// charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return log.New(io.Discard)
}
