// Package debuglog writes structured debug events to a log file.
package debuglog

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "hydutils-debug.log"

// Logger logs CLI events as JSON lines. A disabled Logger discards everything.
type Logger struct {
	log  zerolog.Logger
	file *os.File
}

// Disabled returns a Logger that writes nothing.
func Disabled() *Logger {
	return &Logger{log: zerolog.Nop()}
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{log: zerolog.New(w).With().Timestamp().Logger()}
}

// Open creates the log file at path and returns a Logger writing to it.
// When enabled is false it returns a disabled Logger.
func Open(enabled bool, path string) (*Logger, error) {
	if !enabled {
		return Disabled(), nil
	}
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}

	l := New(f)
	l.file = f
	l.log.Debug().
		Str("event", "DEBUG_START").
		Str("log_file", path).
		Msg("debug logging enabled")
	return l, nil
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.log.Debug().Str("event", "DEBUG_END").Msg("debug logging finished")
	err := l.file.Close()
	l.file = nil
	return err
}

// Command logs the start of a CLI command.
func (l *Logger) Command(name string, args []string) {
	l.log.Debug().
		Str("event", "COMMAND").
		Str("command", name).
		Strs("args", args).
		Msg("running command")
}

// Loaded logs a table load.
func (l *Logger) Loaded(source string, rows, cols int, took time.Duration) {
	l.log.Debug().
		Str("event", "LOAD").
		Str("source", source).
		Int("rows", rows).
		Int("cols", cols).
		Dur("took", took).
		Msg("table loaded")
}

// Check logs the outcome of a validation step.
func (l *Logger) Check(name string, err error) {
	if err != nil {
		l.log.Warn().
			Str("event", "CHECK").
			Str("check", name).
			Err(err).
			Msg("check failed")
		return
	}
	l.log.Debug().
		Str("event", "CHECK").
		Str("check", name).
		Msg("check passed")
}

// Filtered logs the result of a range filter.
func (l *Logger) Filtered(before, after int) {
	l.log.Debug().
		Str("event", "FILTER").
		Int("rows_in", before).
		Int("rows_out", after).
		Msg("rows filtered")
}

// Written logs a table written to disk.
func (l *Logger) Written(path string, rows int) {
	l.log.Debug().
		Str("event", "WRITE").
		Str("path", path).
		Int("rows", rows).
		Msg("table written")
}
