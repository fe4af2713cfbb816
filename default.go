// --- File: default.go ---
package grouplog

import (
	"os"
	"sync"
	"sync/atomic"
)

// Global instance for package-level functions, created on first use
var (
	defaultRuntime     atomic.Pointer[Runtime]
	defaultRuntimeOnce sync.Once
)

// Default returns the process-wide runtime, built from DefaultConfig on first use
func Default() *Runtime {
	defaultRuntimeOnce.Do(func() {
		if defaultRuntime.Load() != nil {
			return
		}
		rt, err := NewRuntime(nil)
		if err != nil {
			// DefaultConfig always validates
			panic(err)
		}
		defaultRuntime.Store(rt)
	})
	return defaultRuntime.Load()
}

// SetDefault replaces the process-wide runtime. The previous one is not shut down.
func SetDefault(rt *Runtime) {
	if rt == nil {
		return
	}
	defaultRuntimeOnce.Do(func() {})
	defaultRuntime.Store(rt)
}

// Default package-level functions that delegate to the default runtime

// RegisterShutdownHook adds a hook to the default runtime
func RegisterShutdownHook(fn ShutdownHook) {
	Default().RegisterShutdownHook(fn)
}

// SetLogDirectory sets the snapshot directory of the default runtime
func SetLogDirectory(path string) error {
	return Default().SetLogDirectory(path)
}

// LogDirectory returns the snapshot directory of the default runtime
func LogDirectory() string {
	return Default().LogDirectory()
}

// Shutdown runs the default runtime's hooks once
func Shutdown() error {
	return Default().Shutdown()
}

// ShutdownOnSignal shuts the default runtime down on SIGINT/SIGTERM or the given signals
func ShutdownOnSignal(sigs ...os.Signal) (stop func()) {
	return Default().ShutdownOnSignal(sigs...)
}

// NewLogger creates a logger on the default runtime
func NewLogger(name string, group *GroupPrefix, opts *LoggerOptions) *Logger {
	return Default().NewLogger(name, group, opts)
}

// NewGroup creates a group on the default runtime
func NewGroup(name string, opts *GroupOptions) *Group {
	return Default().NewGroup(name, opts)
}

// System returns the default runtime's System group
func System() *Group {
	return Default().System()
}

// Main returns the default runtime's main logger
func Main() *Logger {
	return Default().Main()
}

// Debug logs a message at debug level on the main logger
func Debug(args ...any) {
	Default().Main().Debug(args...)
}

// Info logs a message at info level on the main logger
func Info(args ...any) {
	Default().Main().Info(args...)
}

// Warn logs a message at warning level on the main logger
func Warn(args ...any) {
	Default().Main().Warn(args...)
}

// Error logs a message at error level on the main logger
func Error(args ...any) {
	Default().Main().Error(args...)
}

// Log records message at the given level on the main logger
func Log(message any, level ...Level) {
	Default().Main().Log(message, level...)
}
