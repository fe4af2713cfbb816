// FILE: lixenwraith/grouplog/storage.go
package grouplog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/lixenwraith/grouplog/sanitizer"
)

// SaveResult is delivered by a non-blocking save
type SaveResult struct {
	File string // Base name of the written snapshot, empty on failure
	Err  error
}

// LoggerDocument is the persisted form of a Logger
type LoggerDocument struct {
	StartTime int64             `json:"startTime"`
	EndTime   *int64            `json:"endTime"`
	Name      string            `json:"name"`
	Logs      []SerializedEntry `json:"logs"`
	RawLogs   []string          `json:"rawLogs"`
}

// GroupDocument is the persisted form of a Group
type GroupDocument struct {
	StartTime int64            `json:"startTime"`
	EndTime   *int64           `json:"endTime"`
	Name      string           `json:"name"`
	Loggers   []LoggerDocument `json:"loggers"`
}

// snapshotFile tracks the rotation state of one logger or group. saveMu makes
// delete, write and record one exclusive operation per entity.
type snapshotFile struct {
	saveMu   sync.Mutex
	mu       sync.Mutex
	previous string // full path of the last written snapshot
}

// previousPath returns the full path of the last written snapshot
func (sf *snapshotFile) previousPath() string {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.previous
}

// setPrevious records the last written snapshot
func (sf *snapshotFile) setPrevious(path string) {
	sf.mu.Lock()
	sf.previous = path
	sf.mu.Unlock()
}

// snapshotFileName builds "<sanitized name>_<timestamp>.json"
func snapshotFileName(name string, t time.Time, layout string) string {
	return sanitizer.Filename(name) + "_" + t.Format(layout) + snapshotExtension
}

// unixMilliPtr converts an optional end time, zero means unset
func unixMilliPtr(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

// ensureDirectory creates dir and its parents, succeeding if it already exists
func (rt *Runtime) ensureDirectory(dir string) error {
	if err := rt.fs.MkdirAll(dir, 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", dir, err)
	}
	return nil
}

// deletePrevious removes the last written snapshot. Failures are reported and swallowed.
func (rt *Runtime) deletePrevious(sf *snapshotFile) {
	prev := sf.previousPath()
	if prev == "" {
		return
	}
	rt.selfLog("Deleting previous logFile " + filepath.Base(prev))
	if err := rt.fs.Remove(prev); err != nil {
		rt.state.FailedDeletions.Add(1)
		rt.internalError("failed to delete previous snapshot '%s': %v", prev, err)
	} else {
		rt.state.TotalDeletions.Add(1)
	}
	sf.setPrevious("")
}

// writeFileAtomic writes data to a temporary sibling and renames it into place
func (rt *Runtime) writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(rt.fs, tmp, data, 0644); err != nil {
		return fmtErrorf("failed to write snapshot '%s': %w", path, err)
	}
	if err := rt.fs.Rename(tmp, path); err != nil {
		return combineErrors(fmtErrorf("failed to rename snapshot into place '%s': %w", path, err), rt.fs.Remove(tmp))
	}
	return nil
}

// marshalDocument encodes doc with the configured indent
func (rt *Runtime) marshalDocument(doc any) ([]byte, error) {
	if rt.cfg.JSONIndent == 0 {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", rt.cfg.indent())
}

// saveSnapshot runs the rotation protocol for one entity: delete the previous
// file, ensure the directory, write the document built by build, record the
// new file. It returns the base name of the written file.
func (rt *Runtime) saveSnapshot(sf *snapshotFile, name string, build func() any) (string, error) {
	sf.saveMu.Lock()
	defer sf.saveMu.Unlock()

	rotating := sf.previousPath() != ""
	rt.deletePrevious(sf)

	dir := rt.LogDirectory()
	if err := rt.ensureDirectory(dir); err != nil {
		rt.state.FailedSaves.Add(1)
		return "", err
	}

	data, err := rt.marshalDocument(build())
	if err != nil {
		rt.state.FailedSaves.Add(1)
		return "", fmtErrorf("failed to encode snapshot for '%s': %w", name, err)
	}

	fileName := snapshotFileName(name, time.Now(), rt.cfg.FileTimestampFormat)
	path := filepath.Join(dir, fileName)
	if err := rt.writeFileAtomic(path, data); err != nil {
		rt.state.FailedSaves.Add(1)
		return "", err
	}

	sf.setPrevious(path)
	rt.state.TotalSaves.Add(1)
	if rotating {
		rt.state.TotalRotations.Add(1)
	}
	return fileName, nil
}

// saveSnapshotAsync runs save on a tracked goroutine and delivers its result
func (rt *Runtime) saveSnapshotAsync(save func() (string, error)) <-chan SaveResult {
	ch := make(chan SaveResult, 1)
	rt.saveGo(func() {
		file, err := save()
		ch <- SaveResult{File: file, Err: err}
		close(ch)
	})
	return ch
}

// SnapshotFiles lists the snapshot files currently in the log directory, sorted by name
func (rt *Runtime) SnapshotFiles() ([]string, error) {
	dir := rt.LogDirectory()
	infos, err := afero.ReadDir(rt.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to read log directory '%s': %w", dir, err)
	}
	var files []string
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasSuffix(fi.Name(), snapshotExtension) {
			files = append(files, fi.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadSnapshot decodes a snapshot file from the log directory into v.
// file may be a base name or a full path.
func (rt *Runtime) ReadSnapshot(file string, v any) error {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(rt.LogDirectory(), file)
	}
	data, err := afero.ReadFile(rt.fs, path)
	if err != nil {
		return fmtErrorf("failed to read snapshot '%s': %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmtErrorf("failed to decode snapshot '%s': %w", path, err)
	}
	return nil
}
