// Package logger is a process-wide logging facade. Backends are registered
// with Init; until then every call is a no-op. Init may be called again to
// replace the backends, which the CLI does once per command invocation.
package logger

import "sync/atomic"

// LoggerInstance defines the interface for logging backends.
type LoggerInstance interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

// Logger fans each call out to its backends.
type Logger struct {
	instances []LoggerInstance
}

var current atomic.Pointer[Logger]

// Init installs the global logger with one or more logging backends.
func Init(instances ...LoggerInstance) {
	current.Store(&Logger{instances: instances})
}

// Reset removes all backends.
func Reset() {
	current.Store(nil)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func dispatch(lvl level, message string, keyvals []any) {
	l := current.Load()
	if l == nil {
		return
	}
	for _, instance := range l.instances {
		switch lvl {
		case levelDebug:
			instance.Debug(message, keyvals...)
		case levelInfo:
			instance.Info(message, keyvals...)
		case levelWarn:
			instance.Warn(message, keyvals...)
		default:
			instance.Error(message, keyvals...)
		}
	}
}

// Debug writes a message at DEBUG level to all configured backends.
func Debug(message string, keyvals ...any) { dispatch(levelDebug, message, keyvals) }

// Info writes a message at INFO level to all configured backends.
func Info(message string, keyvals ...any) { dispatch(levelInfo, message, keyvals) }

// Warn writes a message at WARN level to all configured backends.
func Warn(message string, keyvals ...any) { dispatch(levelWarn, message, keyvals) }

// Error writes a message at ERROR level to all configured backends.
func Error(message string, keyvals ...any) { dispatch(levelError, message, keyvals) }
