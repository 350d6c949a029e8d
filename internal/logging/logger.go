// Package logging provides the leveled logger every other package in this
// module accepts instead of writing to stderr directly.
//
// Log format: YYYY/MM/DD HH:MM:SS LEVEL [component] message
//
// Example: 2025/12/30 18:45:13 INFO [table] opened sstable id=3
//
// Component namespace prefixes identify which package emitted a line:
//   - [block]    — block codec/decode failures
//   - [memtable] — memtable flush
//   - [table]    — SST build/open
//   - [cache]    — block cache eviction
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
)

// Level controls which calls actually reach the underlying writer; a
// message logs when its level is at or below the logger's configured
// Level.
type Level int

const (
	// LevelError logs only errors.
	LevelError Level = iota
	// LevelWarn logs warnings and errors.
	LevelWarn
	// LevelInfo logs info, warnings, and errors.
	LevelInfo
	// LevelDebug logs everything including debug messages.
	LevelDebug
)

// String returns the level's name, as it appears in a log line.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger is the logging contract every package in this module depends on
// instead of the concrete DefaultLogger. Implementations must be safe for
// concurrent use, since logging happens from whichever goroutine is
// building a block, flushing a memtable, or evicting a cache entry.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

// DefaultLogger writes leveled, namespaced lines to an io.Writer via the
// standard library's log.Logger. It is stateless beyond that writer and
// its level, so it is safe for concurrent use without extra locking.
type DefaultLogger struct {
	logger *log.Logger
	level  Level
}

// NewDefaultLogger creates a logger at the given level writing to stderr.
func NewDefaultLogger(level Level) *DefaultLogger {
	return NewLogger(os.Stderr, level)
}

// NewLogger creates a logger at the given level writing to w.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// Level returns the logger's configured level.
func (l *DefaultLogger) Level() Level {
	return l.level
}

// emit writes label+message when at is within the logger's configured
// level; the four exported methods are thin, level-specific wrappers
// around this.
func (l *DefaultLogger) emit(at Level, label, format string, args ...any) {
	if l.level < at {
		return
	}
	_ = l.logger.Output(3, label+" "+fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *DefaultLogger) Errorf(format string, args ...any) { l.emit(LevelError, "ERROR", format, args...) }

// Warnf logs a formatted warning message.
func (l *DefaultLogger) Warnf(format string, args ...any) { l.emit(LevelWarn, "WARN", format, args...) }

// Infof logs a formatted informational message.
func (l *DefaultLogger) Infof(format string, args ...any) { l.emit(LevelInfo, "INFO", format, args...) }

// Debugf logs a formatted debug message.
func (l *DefaultLogger) Debugf(format string, args ...any) { l.emit(LevelDebug, "DEBUG", format, args...) }

// Namespace prefixes for log messages, one per package that logs.
const (
	// NSBlock is the namespace for block codec/builder operations.
	NSBlock = "[block] "
	// NSMemtable is the namespace for memtable operations.
	NSMemtable = "[memtable] "
	// NSTable is the namespace for SST reader/writer operations.
	NSTable = "[table] "
	// NSCache is the namespace for block cache operations.
	NSCache = "[cache] "
)

// IsNil returns true if the logger is nil or a typed-nil.
// A typed-nil occurs when a nil pointer is assigned to an interface:
//
//	var l *DefaultLogger = nil
//	var log Logger = l // log != nil, but the underlying pointer is
//
// Calling methods on a typed-nil panics, so this function detects both
// cases.
func IsNil(l Logger) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// OrDefault returns l if it is valid (non-nil and not typed-nil),
// otherwise a default WARN-level logger. Every constructor in this
// module that accepts an optional Logger runs it through OrDefault so
// it never has to nil-check before logging.
func OrDefault(l Logger) Logger {
	if IsNil(l) {
		return NewDefaultLogger(LevelWarn)
	}
	return l
}
