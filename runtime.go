// FILE: lixenwraith/grouplog/runtime.go
package grouplog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"
)

// ShutdownHook is a finalization function run once when the runtime shuts down.
type ShutdownHook func() error

// osExit terminates the process after a signal-triggered shutdown
var osExit = os.Exit

// Runtime is the process-wide context every logger and group belongs to. It owns
// the snapshot directory, the shutdown hooks, the filesystem, the echo output and
// the resolved styles.
type Runtime struct {
	cfg    *Config
	fs     afero.Fs
	format *formatter
	state  State

	mu     sync.Mutex // guards logDir, hooks and tasks
	logDir string
	hooks  []ShutdownHook
	tasks  []*periodicTask

	echoMu sync.Mutex

	inflightMu     sync.Mutex // guards inflightClosed against inflight.Wait
	inflightClosed bool
	inflight       conc.WaitGroup

	system      *Group
	main        *Logger
	manager     *Logger
	managerOnce sync.Once
	heartbeat   *periodicTask
}

// NewRuntime creates a runtime with the given configuration, nil means defaults.
// Snapshots go to the OS filesystem and entries are echoed to the configured target.
func NewRuntime(cfg *Config) (*Runtime, error) {
	return newRuntime(cfg, nil, nil)
}

// newRuntime creates a runtime, a nil fs or echo falls back to the configured defaults
func newRuntime(cfg *Config, fs afero.Fs, echo io.Writer) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	if err := cfg.validate(); err != nil {
		return nil, fmtErrorf("invalid configuration: %w", err)
	}

	if fs == nil {
		fs = afero.NewOsFs()
	}
	if echo == nil {
		switch cfg.EchoTarget {
		case "stderr":
			echo = os.Stderr
		case "none":
			echo = io.Discard
		default:
			echo = os.Stdout
		}
	}

	rt := &Runtime{
		cfg:    cfg,
		fs:     fs,
		format: newFormatter(cfg, echo),
	}
	rt.state.StartTime.Store(time.Now())
	rt.state.EchoWriter.Store(&sink{w: echo})

	if err := rt.SetLogDirectory(cfg.Directory); err != nil {
		return nil, err
	}

	systemColor := cfg.systemColor()
	rt.system = rt.NewGroup(systemGroupName, &GroupOptions{Color: systemColor})
	rt.main = rt.system.CreateLogger(mainLoggerName, &LoggerOptions{Color: systemColor})

	if cfg.HeartbeatIntervalS > 0 {
		rt.heartbeat = startPeriodicTask(time.Duration(cfg.HeartbeatIntervalS)*time.Second, rt.logHeartbeat)
	}

	return rt, nil
}

// Config returns a copy of the runtime configuration
func (rt *Runtime) Config() *Config {
	return rt.cfg.Clone()
}

// Fs returns the filesystem snapshots are written to
func (rt *Runtime) Fs() afero.Fs {
	return rt.fs
}

// System returns the root "System" group
func (rt *Runtime) System() *Group {
	return rt.system
}

// Main returns the "main" logger of the System group
func (rt *Runtime) Main() *Logger {
	return rt.main
}

// Manager returns the "Logger Manager" logger used for self diagnostics,
// fetched from the System group on first use.
func (rt *Runtime) Manager() *Logger {
	rt.managerOnce.Do(func() {
		rt.manager = rt.system.GetOrCreateLogger(managerLoggerName)
	})
	return rt.manager
}

// RegisterShutdownHook appends fn to the hooks run by Shutdown, in registration order.
// Hooks registered after Shutdown started are never run.
func (rt *Runtime) RegisterShutdownHook(fn ShutdownHook) {
	if fn == nil {
		return
	}
	rt.mu.Lock()
	rt.hooks = append(rt.hooks, fn)
	rt.mu.Unlock()
}

// SetLogDirectory replaces the snapshot directory. The path is resolved to
// absolute form and applies to subsequent saves only.
func (rt *Runtime) SetLogDirectory(path string) error {
	if path == "" {
		return fmtErrorf("log directory cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmtErrorf("failed to resolve log directory '%s': %w", path, err)
	}
	rt.mu.Lock()
	rt.logDir = abs
	rt.mu.Unlock()
	return nil
}

// LogDirectory returns the current absolute snapshot directory
func (rt *Runtime) LogDirectory() string {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.logDir
}

// Shutdown runs every registered hook once, in registration order. Later calls
// are no-ops. A failing or panicking hook does not stop the ones after it; all
// failures are joined into the returned error. It then stops every periodic
// task and waits for in-flight non-blocking saves.
func (rt *Runtime) Shutdown() error {
	if !rt.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	rt.mu.Lock()
	hooks := make([]ShutdownHook, len(rt.hooks))
	copy(hooks, rt.hooks)
	rt.mu.Unlock()

	var failures []error
	for i, hook := range hooks {
		if err := rt.runHook(i, hook); err != nil {
			rt.state.HookFailures.Add(1)
			rt.internalError("shutdown hook %d failed: %v", i, err)
			failures = append(failures, err)
		}
	}

	rt.mu.Lock()
	tasks := rt.tasks
	rt.tasks = nil
	rt.mu.Unlock()
	for _, task := range tasks {
		task.Stop()
	}
	rt.heartbeat.Stop()

	rt.inflightMu.Lock()
	rt.inflightClosed = true
	rt.inflightMu.Unlock()
	rt.inflight.Wait()

	return errors.Join(failures...)
}

// runHook executes a single hook, converting a panic into an error
func (rt *Runtime) runHook(i int, hook ShutdownHook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("shutdown hook %d panicked: %v", i, r)
		}
	}()
	rt.state.HooksRun.Add(1)
	return hook()
}

// ShutdownOnSignal runs Shutdown when one of sigs arrives (SIGINT and SIGTERM
// when none are given) and then exits the process with 128+signal. The returned
// function stops listening without shutting down.
func (rt *Runtime) ShutdownOnSignal(sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)

	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			_ = rt.Shutdown() // failures already reported per hook
			osExit(exitCode(sig))
		case <-done:
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// exitCode follows the shell convention for signal termination
func exitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}

// startTask starts a periodic task that Shutdown stops
func (rt *Runtime) startTask(interval time.Duration, fn func()) *periodicTask {
	task := startPeriodicTask(interval, fn)
	rt.mu.Lock()
	rt.tasks = append(rt.tasks, task)
	rt.mu.Unlock()
	return task
}

// saveGo runs fn as a tracked non-blocking save. Once Shutdown has stopped
// tracking, fn runs on the calling goroutine instead.
func (rt *Runtime) saveGo(fn func()) {
	rt.inflightMu.Lock()
	if rt.inflightClosed {
		rt.inflightMu.Unlock()
		fn()
		return
	}
	rt.inflight.Go(fn)
	rt.inflightMu.Unlock()
}

// echo writes a rendered line to the echo writer
func (rt *Runtime) echo(line string) {
	rt.echoMu.Lock()
	defer rt.echoMu.Unlock()
	_, _ = io.WriteString(rt.echoWriter(), line+"\n")
}

// selfLog reports library activity on the Logger Manager logger
func (rt *Runtime) selfLog(args ...any) {
	if !rt.cfg.SelfLog {
		return
	}
	rt.Manager().Debug(args...)
}

// internalError reports a swallowed or isolated failure
func (rt *Runtime) internalError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if rt.cfg.InternalErrorsToStderr {
		fmt.Fprintf(os.Stderr, "grouplog: %s\n", msg)
	}
	if rt.cfg.SelfLog {
		rt.Manager().Error(msg)
	}
}
