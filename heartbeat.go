// FILE: lixenwraith/grouplog/heartbeat.go
package grouplog

import (
	"fmt"
	"runtime"
)

// logHeartbeat writes the runtime statistics as one debug entry on the Logger Manager logger
func (rt *Runtime) logHeartbeat() {
	if rt.state.ShutdownCalled.Load() {
		return
	}

	sequence := rt.state.HeartbeatSequence.Add(1)
	stats := rt.Stats()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	rt.Manager().Debug(heartbeatFields(sequence, stats, memStats))
}

// heartbeatFields builds the structured heartbeat payload
func heartbeatFields(sequence uint64, stats Stats, memStats runtime.MemStats) map[string]any {
	return map[string]any{
		"type":             "heartbeat",
		"sequence":         sequence,
		"uptime_hours":     fmt.Sprintf("%.2f", stats.Uptime.Hours()),
		"entries":          stats.Entries,
		"saves":            stats.Saves,
		"failed_saves":     stats.FailedSaves,
		"rotations":        stats.Rotations,
		"deletions":        stats.Deletions,
		"failed_deletions": stats.FailedDeletions,
		"alloc_mb":         fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1000*1000)),
		"num_goroutine":    runtime.NumGoroutine(),
	}
}
