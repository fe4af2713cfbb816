package main

import (
	"fmt"
	"math/rand"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/lixenwraith/grouplog"
)

// StressCmd exercises concurrent logging and saving
type StressCmd struct {
	Loggers int `help:"Number of saving loggers" default:"4"`
	Workers int `help:"Concurrent writers per logger" default:"8"`
	Entries int `help:"Entries per writer" default:"200"`
	Saves   int `help:"Interleaved saves per logger" default:"20"`
}

var levels = []grouplog.Level{
	grouplog.LevelDebug,
	grouplog.LevelInfo,
	grouplog.LevelWarn,
	grouplog.LevelError,
}

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// Run executes the stress test
func (s *StressCmd) Run(cli *CLI) error {
	rt, err := cli.runtime()
	if err != nil {
		return err
	}

	group := rt.NewGroup("Stress", &grouplog.GroupOptions{SaveOnExit: true, Color: grouplog.ColorMagenta})
	loggers := make([]*grouplog.Logger, s.Loggers)
	for i := range loggers {
		loggers[i] = group.CreateLogger(fmt.Sprintf("worker %d", i), &grouplog.LoggerOptions{SaveOnExit: true})
	}

	start := time.Now()
	var saveErrors atomic.Int64
	var wg conc.WaitGroup

	for _, l := range loggers {
		for w := 0; w < s.Workers; w++ {
			wg.Go(func() {
				for i := 0; i < s.Entries; i++ {
					l.Log([]any{generateRandomMessage(rand.Intn(64) + 8), "seq", i}, levels[rand.Intn(len(levels))])
				}
			})
		}
		wg.Go(func() {
			for i := 0; i < s.Saves; i++ {
				var err error
				if i%2 == 0 {
					_, err = l.SaveSnapshotBlocking()
				} else {
					err = (<-l.SaveSnapshot()).Err
				}
				if err != nil {
					saveErrors.Add(1)
				}
			}
		})
	}
	wg.Wait()

	if err := rt.Shutdown(); err != nil {
		return err
	}

	files, err := rt.SnapshotFiles()
	if err != nil {
		return err
	}

	// One file per logger plus one for the group
	want := s.Loggers + 1
	stats := rt.Stats()
	fmt.Printf("\n--- Stress Summary ---\n")
	fmt.Printf("elapsed:        %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("entries:        %d\n", stats.Entries)
	fmt.Printf("saves:          %d (failed %d)\n", stats.Saves, saveErrors.Load())
	fmt.Printf("rotations:      %d\n", stats.Rotations)
	fmt.Printf("snapshot files: %d (want %d)\n", len(files), want)

	if len(files) != want {
		return fmt.Errorf("rotation invariant violated: %d snapshot files, want %d", len(files), want)
	}
	return nil
}
