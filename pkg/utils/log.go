package utils

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the logger shared by the services. Unknown levels fall
// back to info.
func NewLogger(level string) *log.Logger {
	return NewLoggerTo(os.Stderr, level)
}

func NewLoggerTo(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "outfitter",
		ReportTimestamp: true,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that writes nothing, for tests and the TUI.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
