// FILE: lixenwraith/grouplog/logger.go
package grouplog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

// LoggerOptions controls retention and persistence of a Logger. The zero value
// is a logger that echoes entries and keeps no history.
type LoggerOptions struct {
	SaveOnExit       bool          // Register a shutdown hook that performs a final blocking save
	SavePeriodically bool          // Run a non-blocking save every SaveInterval
	SaveInterval     time.Duration // Zero means the runtime's logger_save_interval_ms
	Color            Color         // Name color, ColorNone means the runtime's name_color

	groupSave bool // Set by a group that saves, forces retention
}

// GroupPrefix is the bracketed group label shown before a logger name
type GroupPrefix struct {
	Name  string
	Color Color
}

// Logger is a named source of entries with an optional retained history
// and snapshot persistence.
type Logger struct {
	rt      *Runtime
	name    string
	prefix  string
	opts    LoggerOptions
	retains bool

	mu        sync.RWMutex
	startTime time.Time
	endTime   time.Time
	entries   []*Entry

	snapshot snapshotFile
	task     *periodicTask
}

// NewLogger creates a standalone logger. group may be nil for a bare name prefix,
// opts may be nil for defaults.
func (rt *Runtime) NewLogger(name string, group *GroupPrefix, opts *LoggerOptions) *Logger {
	var o LoggerOptions
	if opts != nil {
		o = *opts
	}
	if o.SaveInterval <= 0 {
		o.SaveInterval = rt.cfg.loggerSaveInterval()
	}
	nameColor := o.Color
	if nameColor == ColorNone {
		nameColor = rt.cfg.nameColor()
	}

	var groupName string
	var groupColor Color
	if group != nil {
		groupName, groupColor = group.Name, group.Color
	}

	l := &Logger{
		rt:        rt,
		name:      name,
		opts:      o,
		retains:   o.SaveOnExit || o.SavePeriodically || o.groupSave,
		startTime: time.Now(),
		prefix: rt.format.formatPrefix(groupName, groupColor, int(rt.cfg.GroupWidth),
			name, nameColor, int(rt.cfg.NameWidth)),
	}

	if o.SaveOnExit {
		rt.RegisterShutdownHook(l.exitHook)
	}
	if o.SavePeriodically {
		rt.selfLog(fmt.Sprintf("Saving Logger %s every %gs", name, o.SaveInterval.Seconds()))
		l.task = rt.startTask(o.SaveInterval, l.periodicSave)
	}

	return l
}

// exitHook performs the final blocking save and cancels the periodic task
func (l *Logger) exitHook() error {
	l.task.Stop()
	file, err := l.SaveSnapshotBlocking()
	if err != nil {
		return err
	}
	l.rt.selfLog(fmt.Sprintf("Saved Logger %s to %s", l.name, file))
	return nil
}

// periodicSave is the periodic task body, a no-op once the runtime shuts down
func (l *Logger) periodicSave() {
	if l.rt.state.ShutdownCalled.Load() {
		return
	}
	res := <-l.SaveSnapshot()
	if res.Err != nil {
		l.rt.internalError("periodic save of logger '%s' failed: %v", l.name, res.Err)
		return
	}
	l.rt.selfLog(fmt.Sprintf("Saved Logger %s to %s", l.name, res.File))
}

// Log records message at the given level, INFO when omitted. A []any message
// is a sequence payload, anything else a single value.
func (l *Logger) Log(message any, level ...Level) {
	lv := LevelInfo
	if len(level) > 0 {
		lv = level[0]
	}
	l.log(lv, message)
}

// Debug logs a message at debug level
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, args)
}

// Info logs a message at info level
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, args)
}

// Warn logs a message at warning level
func (l *Logger) Warn(args ...any) {
	l.log(LevelWarn, args)
}

// Error logs a message at error level
func (l *Logger) Error(args ...any) {
	l.log(LevelError, args)
}

// log creates the entry, retains it if configured, and echoes it
func (l *Logger) log(level Level, message any) {
	e := newEntry(l.rt.format, time.Now(), level, l.prefix, message)
	l.rt.state.TotalEntries.Add(1)
	if l.retains {
		l.mu.Lock()
		l.entries = append(l.entries, e)
		l.mu.Unlock()
	}
	l.rt.echo(e.Styled())
}

// End logs "Logger shutdown." at debug level and records the end time.
// The logger stays usable.
func (l *Logger) End() {
	l.Debug("Logger shutdown.")
	l.mu.Lock()
	l.endTime = time.Now()
	l.mu.Unlock()
}

// ClearBuffer drops all retained entries
func (l *Logger) ClearBuffer() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// SaveSnapshotBlocking writes the logger document and returns the file name
func (l *Logger) SaveSnapshotBlocking() (string, error) {
	l.rt.selfLog(fmt.Sprintf("Saving Logger %s sync.", l.name))
	return l.save()
}

// SaveSnapshot writes the logger document on a background goroutine and
// delivers the result on the returned channel
func (l *Logger) SaveSnapshot() <-chan SaveResult {
	l.rt.selfLog(fmt.Sprintf("Saving Logger %s async.", l.name))
	return l.rt.saveSnapshotAsync(l.save)
}

// save runs the rotation protocol with a document built under the save lock
func (l *Logger) save() (string, error) {
	return l.rt.saveSnapshot(&l.snapshot, l.name, func() any { return l.Snapshot() })
}

// Snapshot returns the logger document as it would be persisted now
func (l *Logger) Snapshot() LoggerDocument {
	l.mu.RLock()
	defer l.mu.RUnlock()

	doc := LoggerDocument{
		StartTime: l.startTime.UnixMilli(),
		EndTime:   unixMilliPtr(l.endTime),
		Name:      l.name,
		Logs:      make([]SerializedEntry, len(l.entries)),
		RawLogs:   make([]string, len(l.entries)),
	}
	for i, e := range l.entries {
		doc.Logs[i] = e.Serialize()
		doc.RawLogs[i] = doc.Logs[i].Message.ColorStripped
	}
	return doc
}

// Name returns the logger name
func (l *Logger) Name() string { return l.name }

// Prefix returns the display prefix used by every entry
func (l *Logger) Prefix() string { return l.prefix }

// Retains reports whether entries are kept for snapshots
func (l *Logger) Retains() bool { return l.retains }

// Runtime returns the owning runtime
func (l *Logger) Runtime() *Runtime { return l.rt }

// StartTime returns the creation time
func (l *Logger) StartTime() time.Time {
	return l.startTime
}

// EndTime returns the time End was called and whether it was
func (l *Logger) EndTime() (time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.endTime, !l.endTime.IsZero()
}

// Entries returns the retained entries in creation order
func (l *Logger) Entries() []*Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// PreviousSnapshotFile returns the base name of the last written snapshot,
// empty when none is on record
func (l *Logger) PreviousSnapshotFile() string {
	if p := l.snapshot.previousPath(); p != "" {
		return filepath.Base(p)
	}
	return ""
}
