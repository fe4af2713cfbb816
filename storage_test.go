// FILE: lixenwraith/grouplog/storage_test.go
package grouplog

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOnExit(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	l := rt.NewLogger("exit", nil, &LoggerOptions{SaveOnExit: true})

	l.Info("first")
	l.Warn("Number:", 2)
	l.Error("third")

	files, err := rt.SnapshotFiles()
	require.NoError(t, err)
	assert.Empty(t, files, "nothing written before shutdown")

	require.NoError(t, rt.Shutdown())

	files, err = rt.SnapshotFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, l.PreviousSnapshotFile(), files[0])

	var doc LoggerDocument
	require.NoError(t, rt.ReadSnapshot(files[0], &doc))
	assert.Equal(t, "exit", doc.Name)
	require.Len(t, doc.Logs, 3)
	assert.Equal(t, LevelInfo, doc.Logs[0].LogLevel)
	assert.Equal(t, LevelWarn, doc.Logs[1].LogLevel)
	assert.Equal(t, LevelError, doc.Logs[2].LogLevel)
	assert.True(t, strings.HasSuffix(doc.RawLogs[1], "exit: Number: 2"))
	assert.JSONEq(t, `["Number:", 2]`, string(doc.Logs[1].Message.Raw.Original))

	t.Run("second shutdown writes nothing", func(t *testing.T) {
		require.NoError(t, rt.Shutdown())
		assert.Equal(t, uint64(1), rt.Stats().Saves)
	})
}

// subSecondNames gives every save its own file name
const subSecondNames = "file_timestamp_format=20060201_150405.000000000"

// assertOnlySnapshot checks that file is the single snapshot left in the log directory
func assertOnlySnapshot(t *testing.T, rt *Runtime, fs afero.Fs, file string, removed ...string) {
	t.Helper()
	for _, old := range removed {
		exists, err := afero.Exists(fs, filepath.Join(rt.LogDirectory(), old))
		require.NoError(t, err)
		assert.False(t, exists, "%s should have been deleted", old)
	}
	exists, err := afero.Exists(fs, filepath.Join(rt.LogDirectory(), file))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSequentialSavesRotate(t *testing.T) {
	rt, _, fs := createTestRuntime(t, subSecondNames)
	l := rt.NewLogger("rotating", nil, &LoggerOptions{SaveOnExit: true})

	l.Info("one")
	first, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)

	l.Info("two")
	second, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)

	files, err := rt.SnapshotFiles()
	require.NoError(t, err)
	require.Len(t, files, 1, "the first file is replaced")
	assert.Equal(t, second, files[0])
	assert.Equal(t, second, l.PreviousSnapshotFile())
	require.NotEqual(t, first, second)
	assertOnlySnapshot(t, rt, fs, second, first)

	var doc LoggerDocument
	require.NoError(t, rt.ReadSnapshot(second, &doc))
	assert.Len(t, doc.Logs, 2)

	for i := 0; i < 3; i++ {
		_, err := l.SaveSnapshotBlocking()
		require.NoError(t, err)
	}

	stats := rt.Stats()
	assert.Equal(t, uint64(5), stats.Saves)
	assert.Equal(t, uint64(4), stats.Rotations)
	assert.Equal(t, uint64(4), stats.Deletions)
	assert.Zero(t, stats.FailedDeletions)
}

func TestRotationAcrossSavePaths(t *testing.T) {
	t.Run("non blocking logger save", func(t *testing.T) {
		rt, _, fs := createTestRuntime(t, subSecondNames)
		l := rt.NewLogger("async", nil, &LoggerOptions{SaveOnExit: true})

		first := <-l.SaveSnapshot()
		require.NoError(t, first.Err)
		second := <-l.SaveSnapshot()
		require.NoError(t, second.Err)

		require.NotEqual(t, first.File, second.File)
		assertOnlySnapshot(t, rt, fs, second.File, first.File)
		assert.Equal(t, second.File, l.PreviousSnapshotFile())
	})

	t.Run("group saves", func(t *testing.T) {
		rt, _, fs := createTestRuntime(t, subSecondNames)
		g := rt.NewGroup("Grouped", &GroupOptions{SaveOnExit: true})
		g.CreateLogger("member", nil).Info("kept")

		first, err := g.SaveSnapshotBlocking()
		require.NoError(t, err)
		second := <-g.SaveSnapshot()
		require.NoError(t, second.Err)
		third, err := g.SaveSnapshotBlocking()
		require.NoError(t, err)

		assertOnlySnapshot(t, rt, fs, third, first, second.File)
		files, err := rt.SnapshotFiles()
		require.NoError(t, err)
		assert.Equal(t, []string{third}, files)
	})

	t.Run("concurrent mixed saves", func(t *testing.T) {
		rt, _, _ := createTestRuntime(t, subSecondNames)
		l := rt.NewLogger("rot", nil, &LoggerOptions{SaveOnExit: true})
		g := rt.NewGroup("grp", &GroupOptions{SaveOnExit: true})
		g.CreateLogger("member", nil).Info("entry")
		l.Info("entry")

		for round := 0; round < 5; round++ {
			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(4)
				go func() { defer wg.Done(); _, _ = l.SaveSnapshotBlocking() }()
				go func() { defer wg.Done(); <-l.SaveSnapshot() }()
				go func() { defer wg.Done(); _, _ = g.SaveSnapshotBlocking() }()
				go func() { defer wg.Done(); <-g.SaveSnapshot() }()
			}
			wg.Wait()

			files, err := rt.SnapshotFiles()
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{g.PreviousSnapshotFile(), l.PreviousSnapshotFile()}, files)
		}

		stats := rt.Stats()
		assert.Equal(t, uint64(80), stats.Saves)
		assert.Zero(t, stats.FailedSaves)
		assert.Zero(t, stats.FailedDeletions)
	})
}

func TestSnapshotFileName(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	l := rt.NewLogger("Logger One", nil, &LoggerOptions{SaveOnExit: true})

	file, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^Logger-One_\d{8}_\d{6}\.json$`), file)

	t.Run("separators and escapes removed", func(t *testing.T) {
		g := rt.NewGroup("\x1b[31mnet/http\x1b[0m", nil)
		file, err := g.SaveSnapshotBlocking()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(file, "net-http_"))
	})
}

func TestNonBlockingSave(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	g := rt.NewGroup("Async", &GroupOptions{SaveOnExit: true})
	g.CreateLogger("member", nil).Info("queued")

	res := <-g.SaveSnapshot()
	require.NoError(t, res.Err)
	assert.Equal(t, g.PreviousSnapshotFile(), res.File)

	_, open := <-g.SaveSnapshot()
	assert.True(t, open)

	var doc GroupDocument
	require.NoError(t, rt.ReadSnapshot(g.PreviousSnapshotFile(), &doc))
	require.Len(t, doc.Loggers, 1)
	assert.Equal(t, "member", doc.Loggers[0].Name)
	assert.Len(t, doc.Loggers[0].Logs, 1)
}

func TestConcurrentSavesLeaveOneFile(t *testing.T) {
	rt, _, _ := createTestRuntime(t, subSecondNames)
	l := rt.NewLogger("busy", nil, &LoggerOptions{SaveOnExit: true})
	l.Info("payload")

	const saves = 10
	results := make([]<-chan SaveResult, saves)
	for i := range results {
		results[i] = l.SaveSnapshot()
	}
	for _, ch := range results {
		res := <-ch
		require.NoError(t, res.Err)
	}

	files, err := rt.SnapshotFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, l.PreviousSnapshotFile(), files[0])
	stats := rt.Stats()
	assert.Equal(t, uint64(saves), stats.Saves)
	assert.Equal(t, uint64(saves-1), stats.Deletions, "every later save removed a distinct earlier file")
}

func TestShutdownWaitsForInflightSaves(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	l := rt.NewLogger("inflight", nil, &LoggerOptions{SavePeriodically: true, SaveInterval: longInterval})
	l.Info("pending")

	_ = l.SaveSnapshot() // result intentionally not read
	require.NoError(t, rt.Shutdown())

	files, err := rt.SnapshotFiles()
	require.NoError(t, err)
	assert.Len(t, files, 1)
	l.task.Stop()
}

func TestSaveFailure(t *testing.T) {
	rt, err := NewBuilder().
		Directory("/logs").
		ColorMode("never").
		SelfLog(false).
		Fs(afero.NewReadOnlyFs(afero.NewMemMapFs())).
		EchoWriter(&strings.Builder{}).
		Build()
	require.NoError(t, err)
	l := rt.NewLogger("readonly", nil, &LoggerOptions{SaveOnExit: true})
	l.Info("lost")

	t.Run("blocking", func(t *testing.T) {
		file, err := l.SaveSnapshotBlocking()
		assert.Error(t, err)
		assert.Empty(t, file)
		assert.Empty(t, l.PreviousSnapshotFile())
	})

	t.Run("non blocking", func(t *testing.T) {
		res := <-l.SaveSnapshot()
		assert.Error(t, res.Err)
		assert.Empty(t, res.File)
	})

	t.Run("shutdown reports hook failure", func(t *testing.T) {
		err := rt.Shutdown()
		assert.ErrorContains(t, err, "failed to create log directory")
		stats := rt.Stats()
		assert.Equal(t, uint64(3), stats.FailedSaves)
		assert.Equal(t, uint64(1), stats.HookFailures)
	})
}

func TestMissingPreviousFileIsSwallowed(t *testing.T) {
	rt, echo, fs := createTestRuntime(t, "self_log=true")
	l := rt.NewLogger("gone", nil, &LoggerOptions{SaveOnExit: true})

	first, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)
	require.NoError(t, fs.Remove(filepath.Join(rt.LogDirectory(), first)))

	second, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)
	assert.Equal(t, second, l.PreviousSnapshotFile())

	stats := rt.Stats()
	assert.Equal(t, uint64(1), stats.FailedDeletions)
	assert.Equal(t, uint64(2), stats.Saves)
	assert.Contains(t, echo.String(), "Deleting previous logFile "+first)
	assert.Contains(t, echo.String(), "failed to delete previous snapshot")
}

func TestSelfLogMessages(t *testing.T) {
	rt, echo, _ := createTestRuntime(t, "self_log=true")
	l := rt.NewLogger("chatty", nil, &LoggerOptions{SaveOnExit: true})
	g := rt.NewGroup("Talkers", &GroupOptions{SaveOnExit: true})

	require.NoError(t, rt.Shutdown())

	out := echo.String()
	assert.Contains(t, out, "DEBUG [  System] Logger Manager: Saving Logger chatty sync.")
	assert.Contains(t, out, "Saved Logger chatty to "+l.PreviousSnapshotFile())
	assert.Contains(t, out, "Saving loggerGroup Talkers sync.")
	assert.Contains(t, out, "Saved loggerGroup Talkers to "+g.PreviousSnapshotFile())
}

func TestSetLogDirectoryBetweenSaves(t *testing.T) {
	rt, _, fs := createTestRuntime(t)
	l := rt.NewLogger("mover", nil, &LoggerOptions{SaveOnExit: true})

	first, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)

	require.NoError(t, rt.SetLogDirectory("/elsewhere"))
	second, err := l.SaveSnapshotBlocking()
	require.NoError(t, err)

	exists, err := afero.Exists(fs, filepath.Join("/logs", first))
	require.NoError(t, err)
	assert.False(t, exists, "previous file removed from the old directory")

	exists, err = afero.Exists(fs, filepath.Join("/elsewhere", second))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveToOsFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	rt, err := NewBuilder().
		Directory(dir).
		ColorMode("never").
		SelfLog(false).
		EchoTarget("none").
		Build()
	require.NoError(t, err)

	l := rt.NewLogger("disk", nil, &LoggerOptions{SaveOnExit: true})
	l.Info("persisted")
	require.NoError(t, rt.Shutdown())

	file := l.PreviousSnapshotFile()
	require.NotEmpty(t, file)
	info, err := os.Stat(filepath.Join(dir, file))
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestJSONIndent(t *testing.T) {
	t.Run("indented by default", func(t *testing.T) {
		rt, _, fs := createTestRuntime(t)
		l := rt.NewLogger("pretty", nil, &LoggerOptions{SaveOnExit: true})
		file, err := l.SaveSnapshotBlocking()
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, filepath.Join(rt.LogDirectory(), file))
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n  \"startTime\": ")
		assert.Contains(t, string(data), "\"endTime\": null")
	})

	t.Run("compact", func(t *testing.T) {
		rt, _, fs := createTestRuntime(t, "json_indent=0")
		l := rt.NewLogger("compact", nil, &LoggerOptions{SaveOnExit: true})
		file, err := l.SaveSnapshotBlocking()
		require.NoError(t, err)

		data, err := afero.ReadFile(fs, filepath.Join(rt.LogDirectory(), file))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "\n")
		assert.Contains(t, string(data), `"logs":[]`)
	})
}

func TestSnapshotFilesMissingDirectory(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	files, err := rt.SnapshotFiles()
	assert.NoError(t, err)
	assert.Nil(t, files)

	assert.Error(t, rt.ReadSnapshot("absent.json", &LoggerDocument{}))
}
