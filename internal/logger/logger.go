// Package logger provides a lightweight, centralized logging facility
// with configurable verbosity levels, backed by zap.
//
// Design goals:
//   - Simple API (Errorf, Infof, Debugf, Tracef)
//   - Centralized verbosity control
//   - Structured fields available through L() when a call site needs them
//
// Verbosity levels (in increasing order):
//
//	Error < Info < Debug < Trace
//
// Example usage:
//
//	logger.SetVerbosity(2) // Debug
//	logger.Infof("starting engine")
//	logger.Debugf("atr=%f range=%f", atr, rangePrice)
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents a logging verbosity level.
// Higher values mean more verbose logging.
type Level int

const (
	Error Level = iota // Error logs only critical failures.
	Info               // Info logs high-level application progress.
	Debug              // Debug logs detailed diagnostic information.
	Trace              // Trace logs very fine-grained execution details.
)

var (
	mu      sync.RWMutex
	current = Info
	base    *zap.Logger
	sugar   *zap.SugaredLogger
)

func init() {
	SetLogger(newConsoleLogger())
}

// newConsoleLogger writes coloured, human-readable lines to stderr so
// reports printed on stdout stay clean for pipelines.
//
// Example output:
//
//	15:42:10 [INFO] simulation finished
func newConsoleLogger() *zap.Logger {
	core := zapcore.NewCore(
		PrettyEncoder(),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// SetLogger replaces the underlying zap logger. Verbosity gating still
// happens in this package, so the core should accept debug entries.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// L returns the underlying structured logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetVerbosity sets the global logging verbosity.
// Typically called once during application startup
// (e.g. after parsing CLI flags). Out of range values fall back to Info.
func SetVerbosity(v int) {
	if v < int(Error) || v > int(Trace) {
		v = int(Info)
	}
	mu.Lock()
	current = Level(v)
	mu.Unlock()
}

// Verbosity returns the active verbosity level.
func Verbosity() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Enabled reports whether messages at level l are currently emitted.
// Useful to skip building expensive log arguments.
func Enabled(l Level) bool {
	return Verbosity() >= l
}

// Sync flushes any buffered entries.
func Sync() {
	_ = L().Sync()
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	on := current >= l
	s := sugar
	mu.RUnlock()
	if !on {
		return
	}
	switch l {
	case Error:
		s.Errorf(format, args...)
	case Info:
		s.Infof(format, args...)
	default:
		s.Debugf(format, args...)
	}
}

// Errorf logs an error-level message.
// Use this for failures that require attention.
func Errorf(format string, args ...any) {
	logf(Error, format, args...)
}

// Infof logs an informational message.
// Use this for major lifecycle events.
func Infof(format string, args ...any) {
	logf(Info, format, args...)
}

// Debugf logs debugging information.
func Debugf(format string, args ...any) {
	logf(Debug, format, args...)
}

// Tracef logs very detailed execution traces. They are emitted at zap's
// debug level, so only the verbosity setting separates them from Debugf.
func Tracef(format string, args ...any) {
	logf(Trace, format, args...)
}
