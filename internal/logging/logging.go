// Package logging builds the structured logger shared by the server, the
// CLI commands and the workflows.
package logging

import (
	"io"
	"strings"

	"github.com/felixgeelhaar/bolt/v3"
)

// New creates a logger writing to out. format is "json" or "console";
// level is one of debug, info, warn or error (default info).
func New(out io.Writer, format, level string) *bolt.Logger {
	var l *bolt.Logger
	if strings.EqualFold(format, "json") {
		l = bolt.New(bolt.NewJSONHandler(out))
	} else {
		l = bolt.New(bolt.NewConsoleHandler(out))
	}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l.SetLevel(bolt.DEBUG)
	case "warn", "warning":
		l.SetLevel(bolt.WARN)
	case "error":
		l.SetLevel(bolt.ERROR)
	default:
		l.SetLevel(bolt.INFO)
	}
	return l
}

// Discard returns a logger that drops everything, for tests.
func Discard() *bolt.Logger {
	l := bolt.New(bolt.NewJSONHandler(io.Discard))
	l.SetLevel(bolt.ERROR)
	return l
}
