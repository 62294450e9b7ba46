// Package log is a thin key/value logging facade over zerolog.
//
// Calls take a message followed by alternating keys and values:
//
//	log.Info("remote mounted", "remote", "work:", "path", "/home/u/mounts/work")
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().
		Level(zerolog.InfoLevel)
)

// Setup configures the global logger to write human readable output to
// stderr. Debug messages are only emitted when verbose is set.
func Setup(verbose bool) {
	SetOutput(os.Stderr, verbose)
}

// SetOutput redirects the global logger to w.
func SetOutput(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = w
	if f, ok := w.(*os.File); ok && f == os.Stderr {
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// Discard drops all log output. Used while the terminal UI owns the screen.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.Nop()
}

func Debug(msg string, args ...any) { emit(zerolog.DebugLevel, msg, args) }
func Info(msg string, args ...any)  { emit(zerolog.InfoLevel, msg, args) }
func Warn(msg string, args ...any)  { emit(zerolog.WarnLevel, msg, args) }
func Error(msg string, args ...any) { emit(zerolog.ErrorLevel, msg, args) }

func emit(level zerolog.Level, msg string, args []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	ev := l.WithLevel(level)
	if ev == nil {
		return
	}
	if len(args) > 0 {
		// zerolog accepts a flat key/value slice; a dangling key gets an
		// empty value so the message is never dropped.
		if len(args)%2 != 0 {
			args = append(args, "")
		}
		ev = ev.Fields(args)
	}
	ev.Msg(msg)
}
