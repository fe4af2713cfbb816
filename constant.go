// FILE: lixenwraith/grouplog/constant.go
package grouplog

import (
	"time"
)

// Level is the severity of a log entry. Only four fixed levels exist.
type Level int64

// Log level constants
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// Persistence defaults
const (
	// Default interval between periodic saves of a single logger
	DefaultLoggerSaveInterval = 30 * time.Second
	// Default interval between periodic saves of a logger group
	DefaultGroupSaveInterval = 100 * time.Second
)

// Rendering layouts
const (
	// Entry timestamp, day-month-year with milliseconds
	entryTimestampLayout = "02-01-2006 15:04:05.000"
	// Snapshot file name timestamp: year, day, month, hour, minute, second
	fileTimestampLayout = "20060201_150405"
	// Level column width
	levelWidth = 5
	// Snapshot file extension
	snapshotExtension = ".json"
)

// Root group identity
const (
	systemGroupName   = "System"
	mainLoggerName    = "main"
	managerLoggerName = "Logger Manager"
)

// Timers
const (
	// Minimum interval accepted for any periodic task
	minWaitTime = 10 * time.Millisecond
)
