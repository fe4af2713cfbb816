// FILE: state.go
package grouplog

import (
	"io"
	"sync/atomic"
	"time"
)

// State encapsulates the runtime counters and lifecycle flags
type State struct {
	ShutdownCalled atomic.Bool
	StartTime      atomic.Value // stores time.Time for uptime calculation

	EchoWriter atomic.Value // stores *sink

	// Heartbeat statistics
	HeartbeatSequence atomic.Uint64 // Counter for heartbeat sequence numbers
	TotalEntries      atomic.Uint64 // Counter for entries created by any logger
	TotalSaves        atomic.Uint64 // Counter for successful snapshot writes
	FailedSaves       atomic.Uint64 // Counter for snapshot writes that returned an error
	TotalRotations    atomic.Uint64 // Counter for saves that replaced a previous snapshot
	TotalDeletions    atomic.Uint64 // Counter for successful previous-snapshot deletions
	FailedDeletions   atomic.Uint64 // Counter for swallowed deletion failures
	HooksRun          atomic.Uint64 // Counter for shutdown hooks executed
	HookFailures      atomic.Uint64 // Counter for shutdown hooks that failed or panicked
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}

// Stats is a point-in-time copy of the runtime counters
type Stats struct {
	Uptime          time.Duration
	Entries         uint64
	Saves           uint64
	FailedSaves     uint64
	Rotations       uint64
	Deletions       uint64
	FailedDeletions uint64
	HooksRun        uint64
	HookFailures    uint64
	ShutdownCalled  bool
}

// Stats returns a snapshot of the runtime counters
func (rt *Runtime) Stats() Stats {
	var uptime time.Duration
	if start, ok := rt.state.StartTime.Load().(time.Time); ok && !start.IsZero() {
		uptime = time.Since(start)
	}
	return Stats{
		Uptime:          uptime,
		Entries:         rt.state.TotalEntries.Load(),
		Saves:           rt.state.TotalSaves.Load(),
		FailedSaves:     rt.state.FailedSaves.Load(),
		Rotations:       rt.state.TotalRotations.Load(),
		Deletions:       rt.state.TotalDeletions.Load(),
		FailedDeletions: rt.state.FailedDeletions.Load(),
		HooksRun:        rt.state.HooksRun.Load(),
		HookFailures:    rt.state.HookFailures.Load(),
		ShutdownCalled:  rt.state.ShutdownCalled.Load(),
	}
}

// echoWriter returns the current echo destination
func (rt *Runtime) echoWriter() io.Writer {
	if s, ok := rt.state.EchoWriter.Load().(*sink); ok && s != nil {
		return s.w
	}
	return io.Discard
}
