package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"
)

// Logger defines a minimal, printf-style logging contract shared by every
// component in the pipeline.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level; unknown strings mean Info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil or wraps a nil pointer receiver.
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	val := reflect.ValueOf(logger)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
		return val.IsNil()
	default:
		return false
	}
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}

var (
	defaultLogger *baseLogger
	defaultOnce   sync.Once
)

type baseLogger struct {
	mu        sync.Mutex
	out       *log.Logger
	level     Level
	component string
}

// getDefault lazily opens the shared debug log file, falling back to stderr
// when the home directory or the file is unavailable.
func getDefault() *baseLogger {
	defaultOnce.Do(func() {
		defaultLogger = &baseLogger{level: LevelInfo}
		var w io.Writer = os.Stderr
		if home, err := os.UserHomeDir(); err == nil {
			path := filepath.Join(home, "questline-debug.log")
			if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				w = file
			}
		}
		defaultLogger.out = log.New(w, "", 0)
	})
	return defaultLogger
}

// SetLevel sets the minimum level of the shared logger.
func SetLevel(level Level) {
	base := getDefault()
	base.mu.Lock()
	base.level = level
	base.mu.Unlock()
}

// NewComponentLogger returns the shared logger scoped to a component tag.
func NewComponentLogger(component string) Logger {
	base := getDefault()
	return &baseLogger{out: base.out, level: base.level, component: component}
}

// NewWriterLogger returns a logger writing to w; used by tests and the CLI
// verbose mode.
func NewWriterLogger(w io.Writer, level Level, component string) Logger {
	return &baseLogger{out: log.New(w, "", 0), level: level, component: component}
}

func (l *baseLogger) log(level Level, format string, args ...any) {
	if level < l.level || l.out == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		l.out.Printf("%s [%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05.000"), level, l.component, msg)
		return
	}
	l.out.Printf("%s [%s] %s", time.Now().Format("2006-01-02 15:04:05.000"), level, msg)
}

func (l *baseLogger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *baseLogger) Info(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *baseLogger) Warn(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *baseLogger) Error(format string, args ...any) { l.log(LevelError, format, args...) }
