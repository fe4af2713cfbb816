// FILE: lixenwraith/grouplog/timer.go
package grouplog

import (
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// periodicTask runs fn on a ticker until stopped. It is owned by exactly one
// logger, group or runtime.
type periodicTask struct {
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	wg       conc.WaitGroup
}

// startPeriodicTask starts a ticker goroutine, intervals below minWaitTime are raised to it
func startPeriodicTask(interval time.Duration, fn func()) *periodicTask {
	if interval < minWaitTime {
		interval = minWaitTime
	}
	t := &periodicTask{
		interval: interval,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	t.wg.Go(func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				// A stop racing a tick must win
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	})
	return t
}

// Stop cancels the task and waits for a running tick to finish. Safe on nil and
// safe to call more than once.
func (t *periodicTask) Stop() {
	if t == nil {
		return
	}
	t.stopOnce.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
	t.wg.Wait()
}

// Interval returns the effective tick interval
func (t *periodicTask) Interval() time.Duration {
	if t == nil {
		return 0
	}
	return t.interval
}
