// =============================================================================
// TimePro Timesheet - Logging
// =============================================================================
//
// A small levelled logger. Timesheet JSON goes to stdout, so log lines are
// written to stderr by default.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel converts "debug", "info", "warn" or "error" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

type writerLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// New returns a logger writing lines at or above level to out.
func New(out io.Writer, level Level) Logger {
	return &writerLogger{out: out, level: level}
}

// Default returns an info-level logger on stderr.
func Default() Logger {
	return New(os.Stderr, LevelInfo)
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(io.Discard, LevelError+1)
}

func (l *writerLogger) log(level Level, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s] "+msg+"\n", append([]interface{}{levelNames[level]}, args...)...)
}

func (l *writerLogger) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }
func (l *writerLogger) Info(msg string, args ...interface{})  { l.log(LevelInfo, msg, args...) }
func (l *writerLogger) Warn(msg string, args ...interface{})  { l.log(LevelWarn, msg, args...) }
func (l *writerLogger) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }
