// FILE: lixenwraith/grouplog/group.go
package grouplog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"
)

// GroupOptions controls persistence and the shared prefix color of a Group
type GroupOptions struct {
	SaveOnExit       bool          // Register a shutdown hook that performs a final blocking save
	SavePeriodically bool          // Run a non-blocking save every SaveInterval
	SaveInterval     time.Duration // Zero means the runtime's group_save_interval_ms
	Color            Color         // Color of the group name in every member prefix
}

// Group is an ordered set of loggers sharing a prefix, persisted as one document.
type Group struct {
	rt   *Runtime
	name string
	opts GroupOptions

	mu        sync.RWMutex
	startTime time.Time
	endTime   time.Time
	members   []*Logger

	snapshot snapshotFile
	task     *periodicTask
}

// NewGroup creates an empty group, opts may be nil for defaults
func (rt *Runtime) NewGroup(name string, opts *GroupOptions) *Group {
	var o GroupOptions
	if opts != nil {
		o = *opts
	}
	if o.SaveInterval <= 0 {
		o.SaveInterval = rt.cfg.groupSaveInterval()
	}

	g := &Group{
		rt:        rt,
		name:      name,
		opts:      o,
		startTime: time.Now(),
	}

	if o.SaveOnExit {
		rt.RegisterShutdownHook(g.exitHook)
	}
	if o.SavePeriodically {
		rt.selfLog(fmt.Sprintf("Saving LoggerGroup %s every %gs", name, o.SaveInterval.Seconds()))
		g.task = rt.startTask(o.SaveInterval, g.periodicSave)
	}

	return g
}

// exitHook performs the final blocking save and cancels the periodic task
func (g *Group) exitHook() error {
	g.task.Stop()
	file, err := g.SaveSnapshotBlocking()
	if err != nil {
		return err
	}
	g.rt.selfLog(fmt.Sprintf("Saved loggerGroup %s to %s", g.name, file))
	return nil
}

// periodicSave is the periodic task body, a no-op once the runtime shuts down
func (g *Group) periodicSave() {
	if g.rt.state.ShutdownCalled.Load() {
		return
	}
	res := <-g.SaveSnapshot()
	if res.Err != nil {
		g.rt.internalError("periodic save of group '%s' failed: %v", g.name, res.Err)
		return
	}
	g.rt.selfLog(fmt.Sprintf("Saved loggerGroup %s to %s", g.name, res.File))
}

// saves reports whether the group persists itself, which forces member retention
func (g *Group) saves() bool {
	return g.opts.SaveOnExit || g.opts.SavePeriodically
}

// newMember builds a logger carrying the group prefix
func (g *Group) newMember(name string, opts *LoggerOptions) *Logger {
	var o LoggerOptions
	if opts != nil {
		o = *opts
	}
	o.groupSave = g.saves()
	return g.rt.NewLogger(name, &GroupPrefix{Name: g.name, Color: g.opts.Color}, &o)
}

// CreateLogger always appends a new member, even when the name is taken
func (g *Group) CreateLogger(name string, opts *LoggerOptions) *Logger {
	l := g.newMember(name, opts)
	g.mu.Lock()
	g.members = append(g.members, l)
	g.mu.Unlock()
	return l
}

// GetLogger returns the first member with the given name
func (g *Group) GetLogger(name string) (*Logger, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, l := range g.members {
		if l.name == name {
			return l, true
		}
	}
	return nil, false
}

// GetOrCreateLogger returns the first member with the given name, creating it
// with default options when absent
func (g *Group) GetOrCreateLogger(name string) *Logger {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, l := range g.members {
		if l.name == name {
			return l
		}
	}
	l := g.newMember(name, nil)
	g.members = append(g.members, l)
	return l
}

// Loggers returns the members in insertion order
func (g *Group) Loggers() []*Logger {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Logger, len(g.members))
	copy(out, g.members)
	return out
}

// End records the group end time, members are not affected
func (g *Group) End() {
	g.mu.Lock()
	g.endTime = time.Now()
	g.mu.Unlock()
}

// SaveSnapshotBlocking writes the group document and returns the file name
func (g *Group) SaveSnapshotBlocking() (string, error) {
	g.rt.selfLog(fmt.Sprintf("Saving loggerGroup %s sync.", g.name))
	return g.save()
}

// SaveSnapshot writes the group document on a background goroutine
func (g *Group) SaveSnapshot() <-chan SaveResult {
	g.rt.selfLog(fmt.Sprintf("Saving loggerGroup %s async.", g.name))
	return g.rt.saveSnapshotAsync(g.save)
}

func (g *Group) save() (string, error) {
	return g.rt.saveSnapshot(&g.snapshot, g.name, func() any { return g.Snapshot() })
}

// Snapshot returns the group document with every member serialized
func (g *Group) Snapshot() GroupDocument {
	g.mu.RLock()
	doc := GroupDocument{
		StartTime: g.startTime.UnixMilli(),
		EndTime:   unixMilliPtr(g.endTime),
		Name:      g.name,
	}
	members := make([]*Logger, len(g.members))
	copy(members, g.members)
	g.mu.RUnlock()

	doc.Loggers = make([]LoggerDocument, len(members))
	for i, l := range members {
		doc.Loggers[i] = l.Snapshot()
	}
	return doc
}

// Name returns the group name
func (g *Group) Name() string { return g.name }

// StartTime returns the creation time
func (g *Group) StartTime() time.Time { return g.startTime }

// EndTime returns the time End was called and whether it was
func (g *Group) EndTime() (time.Time, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.endTime, !g.endTime.IsZero()
}

// PreviousSnapshotFile returns the base name of the last written snapshot
func (g *Group) PreviousSnapshotFile() string {
	if p := g.snapshot.previousPath(); p != "" {
		return filepath.Base(p)
	}
	return ""
}
