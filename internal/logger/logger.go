// Package logger provides a simple logging interface for glspy components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
//
// The interactive dashboard owns the terminal, so anything it logs must go to
// a file (see NewWriterLogger) or nowhere at all.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// DebugEnv enables debug output for env and writer loggers when set.
const DebugEnv = "GLSPY_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger logs through the standard log package.
// Debug messages are only printed when GLSPY_DEBUG is set.
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the GLSPY_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[shm]" or "[web]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// writerLogger writes to its own destination instead of the global log
// output, so the dashboard can log to a file while it owns stdout.
type writerLogger struct {
	out    *log.Logger
	prefix string
	debug  bool
}

// NewWriterLogger creates a logger writing timestamped lines to w.
// Debug lines are written when debug is true or GLSPY_DEBUG is set.
func NewWriterLogger(w io.Writer, prefix string, debug bool) Logger {
	return &writerLogger{
		out:    log.New(w, "", log.LstdFlags),
		prefix: prefix,
		debug:  debug || os.Getenv(DebugEnv) != "",
	}
}

func (l *writerLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		l.out.Printf(l.prefix+" DEBUG: "+format, args...)
	}
}

func (l *writerLogger) Info(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" "+format, args...)
}

func (l *writerLogger) Warn(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *writerLogger) Error(format string, args ...interface{}) {
	l.out.Printf(l.prefix+" ERROR: "+format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is safe for concurrent use; web handlers log from request goroutines.
type BufferLogger struct {
	mu       sync.Mutex
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LogMessage{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add("warn", format, args...) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = l.Messages[:0]
}
