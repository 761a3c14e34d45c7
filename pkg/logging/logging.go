package logging

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// LogLevel defines the significance of a diagnostic message.
// Lower values are more significant.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelNotice
	LevelInfo
	LevelVerbose
	LevelDebug
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch {
	case l == LevelError:
		return "ERROR"
	case l == LevelWarn:
		return "WARN"
	case l == LevelNotice:
		return "NOTICE"
	case l == LevelInfo:
		return "INFO"
	case l == LevelVerbose:
		return "VERBOSE"
	case l >= LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel maps the level onto the slog scale, where higher values are more
// significant.
func (l LogLevel) SlogLevel() slog.Level {
	switch {
	case l <= LevelError:
		return slog.LevelError
	case l == LevelWarn:
		return slog.LevelWarn
	case l == LevelNotice:
		return slog.LevelInfo + 2
	case l == LevelInfo:
		return slog.LevelInfo
	case l == LevelVerbose:
		return slog.LevelInfo - 2
	default:
		return slog.LevelDebug
	}
}

var (
	defaultMu       sync.RWMutex
	defaultDelegate Delegate
	defaultMaxLevel = LevelInfo
)

// Init installs the delegate that receives everything published through the
// package-level helpers. Messages more verbose than maxLevel are dropped.
func Init(delegate Delegate, maxLevel LogLevel) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultDelegate = delegate
	defaultMaxLevel = maxLevel
}

// InitForCLI initializes the package-level helpers to write plain text lines to
// output.
func InitForCLI(filterLevel LogLevel, output io.Writer) {
	reporter := NewStreamReporter(output, output, FormatText)
	Init(reporter.Report, filterLevel)
}

// Enabled reports whether a message at level would be delivered by the
// package-level helpers.
func Enabled(level LogLevel) bool {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDelegate != nil && level <= defaultMaxLevel
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	defaultMu.RLock()
	delegate := defaultDelegate
	maxLevel := defaultMaxLevel
	defaultMu.RUnlock()

	if delegate == nil || level > maxLevel {
		return
	}

	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	delegate(subsystem, level, msg)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
