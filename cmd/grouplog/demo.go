package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lixenwraith/grouplog"
)

// DemoCmd logs the sample payloads and saves them
type DemoCmd struct {
	Group  string        `help:"Group name" default:"Demo"`
	Color  string        `help:"Group color" default:"cyan"`
	Follow time.Duration `help:"Keep logging at this interval until interrupted, 0 logs once" default:"0s"`
}

// Run executes the demo
func (d *DemoCmd) Run(cli *CLI) error {
	rt, err := cli.runtime()
	if err != nil {
		return err
	}

	color, err := grouplog.ParseColor(d.Color)
	if err != nil {
		return err
	}

	group := rt.NewGroup(d.Group, &grouplog.GroupOptions{SaveOnExit: true, Color: color})
	logger := group.CreateLogger("main", nil)

	rt.Main().Info("Number:", 1337)
	logSamples(logger)

	if d.Follow > 0 {
		// Shutdown on interrupt persists the group and exits
		stop := rt.ShutdownOnSignal()
		defer stop()

		ticker := time.NewTicker(d.Follow)
		defer ticker.Stop()
		for range ticker.C {
			logSamples(logger)
		}
	}

	logger.End()
	group.End()

	file, err := group.SaveSnapshotBlocking()
	if err != nil {
		return err
	}
	fmt.Printf("group snapshot written: %s\n", file)

	// The exit hook rotates the snapshot written above
	if err := rt.Shutdown(); err != nil {
		return err
	}
	fmt.Printf("final snapshot: %s\n", filepath.Join(rt.LogDirectory(), group.PreviousSnapshotFile()))
	return nil
}

// logSamples writes one entry of every payload kind at every level
func logSamples(l *grouplog.Logger) {
	l.Debug("String:", "Hello")
	l.Info("Number:", 1337)
	l.Info("Numbers:", 1, 3, 3, 7)
	l.Warn("Array:", []int{1, 3, 3, 7})
	l.Error("Object:", map[string]any{"a": "b", "d": map[string]any{"c": "e"}})
}
