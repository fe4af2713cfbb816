// FILE: lixenwraith/grouplog/builder.go
package grouplog

import (
	"io"
	"time"

	"github.com/spf13/afero"
)

// Builder provides a fluent API for building a Runtime.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg  *Config
	fs   afero.Fs
	echo io.Writer
	err  error // Accumulate errors for deferred handling
}

// NewBuilder creates a new runtime builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Runtime with the accumulated configuration.
func (b *Builder) Build() (*Runtime, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newRuntime(b.cfg, b.fs, b.echo)
}

// Config replaces the whole configuration.
func (b *Builder) Config(cfg *Config) *Builder {
	if cfg != nil {
		b.cfg = cfg.Clone()
	}
	return b
}

// Override applies "key=value" overrides.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.cfg.ApplyOverride(overrides...)
	return b
}

// Directory sets the snapshot directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// LoggerSaveInterval sets the default periodic interval for loggers.
func (b *Builder) LoggerSaveInterval(d time.Duration) *Builder {
	b.cfg.LoggerSaveIntervalMs = d.Milliseconds()
	return b
}

// GroupSaveInterval sets the default periodic interval for groups.
func (b *Builder) GroupSaveInterval(d time.Duration) *Builder {
	b.cfg.GroupSaveIntervalMs = d.Milliseconds()
	return b
}

// Widths sets the group and name column widths.
func (b *Builder) Widths(group, name int) *Builder {
	b.cfg.GroupWidth = int64(group)
	b.cfg.NameWidth = int64(name)
	return b
}

// ColorMode sets "auto", "always" or "never".
func (b *Builder) ColorMode(mode string) *Builder {
	b.cfg.ColorMode = mode
	return b
}

// EchoTarget sets "stdout", "stderr" or "none".
func (b *Builder) EchoTarget(target string) *Builder {
	b.cfg.EchoTarget = target
	return b
}

// SelfLog toggles the Logger Manager diagnostics.
func (b *Builder) SelfLog(enable bool) *Builder {
	b.cfg.SelfLog = enable
	return b
}

// HeartbeatIntervalS sets the stats heartbeat interval, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// Fs sets the filesystem snapshots are written to.
func (b *Builder) Fs(fs afero.Fs) *Builder {
	b.fs = fs
	return b
}

// EchoWriter sends echoed entries to w instead of the configured target.
func (b *Builder) EchoWriter(w io.Writer) *Builder {
	b.echo = w
	return b
}

// Example usage:
// rt, err := grouplog.NewBuilder().
//
//	Directory("/var/log/app").
//	ColorMode("never").
//	LoggerSaveInterval(10 * time.Second).
//	Build()
//
// if err == nil {
//
//	 defer rt.Shutdown()
//	 rt.Main().Info("Runtime initialized successfully")
//
// }
