package logging

import (
	"io"

	hclog "github.com/hashicorp/go-hclog"
)

// New returns the application logger. Level is parsed leniently; an
// unknown value falls back to info.
func New(output io.Writer, level string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "pomo",
		Output: output,
		Level:  hclog.LevelFromString(level),
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.Off})
}
