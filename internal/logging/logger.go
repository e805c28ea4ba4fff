// Package logging builds the application logger. The CLI points it at
// stderr so that prompts and install output on stdout stay readable.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewWithWriter creates the application logger writing to w. Verbose
// switches the level from info to debug.
func NewWithWriter(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: false,
	})
}

// NewNop returns a logger that discards everything.
func NewNop() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
