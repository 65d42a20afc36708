// Package logging provides a small leveled logger for the surface manager
// and its supporting packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed dispatch tracing.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages, including contract violations.
	LevelError
)

// String returns the string representation of the level.
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
		return "UNKNOWN"
	}
}

// ParseLevel parses a string into a Level. Unknown strings map to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes timestamped, leveled log lines with optional fixed fields.
type Logger struct {
	mu       sync.Mutex
	level    Level
	output   io.Writer
	prefix   string
	fields   map[string]any
	disabled bool
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level to output.
	Level Level
	// Output is where lines are written. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is prepended to every message.
	Prefix string
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
		Prefix: "termstack",
	}
}

// New creates a logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	return &Logger{
		level:  cfg.Level,
		output: cfg.Output,
		prefix: cfg.Prefix,
		fields: make(map[string]any),
	}
}

// Null is a logger that discards all output.
var Null = &Logger{disabled: true}

// WithField returns a new logger with the given field added.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value

	return &Logger{
		level:    l.level,
		output:   l.output,
		prefix:   l.prefix,
		fields:   fields,
		disabled: l.disabled,
	}
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

// log writes a line if the level is enabled.
func (l *Logger) log(level Level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disabled || level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02T15:04:05.000")

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var line string
	if l.prefix != "" {
		line = fmt.Sprintf("%s [%s] %s: %s", timestamp, level.String(), l.prefix, msg)
	} else {
		line = fmt.Sprintf("%s [%s] %s", timestamp, level.String(), msg)
	}

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		line += " {"
		for i, k := range keys {
			if i > 0 {
				line += ", "
			}
			line += fmt.Sprintf("%s=%v", k, l.fields[k])
		}
		line += "}"
	}

	line += "\n"

	_, _ = l.output.Write([]byte(line))
}
