// FILE: lixenwraith/grouplog/group_test.go
package grouplog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMembers(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	g := rt.NewGroup("Workers", nil)

	t.Run("create always appends", func(t *testing.T) {
		first := g.CreateLogger("job", nil)
		second := g.CreateLogger("job", nil)

		assert.NotSame(t, first, second)
		assert.Len(t, g.Loggers(), 2)

		found, ok := g.GetLogger("job")
		require.True(t, ok)
		assert.Same(t, first, found, "lookup returns the first match")
	})

	t.Run("lookup miss", func(t *testing.T) {
		l, ok := g.GetLogger("absent")
		assert.False(t, ok)
		assert.Nil(t, l)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		a := g.GetOrCreateLogger("queue")
		b := g.GetOrCreateLogger("queue")
		assert.Same(t, a, b)
		assert.Len(t, g.Loggers(), 3)
	})

	t.Run("members carry the group prefix", func(t *testing.T) {
		l, _ := g.GetLogger("queue")
		assert.Equal(t, "[ Workers] queue", l.Prefix())
	})
}

func TestGroupGetOrCreateConcurrent(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	g := rt.NewGroup("Race", nil)

	const callers = 50
	results := make([]*Logger, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n] = g.GetOrCreateLogger("shared")
		}(i)
	}
	wg.Wait()

	require.Len(t, g.Loggers(), 1)
	for _, l := range results {
		assert.Same(t, results[0], l)
	}
}

func TestGroupSaveForcesRetention(t *testing.T) {
	rt, _, _ := createTestRuntime(t)

	quiet := rt.NewGroup("Quiet", nil)
	saving := rt.NewGroup("Saving", &GroupOptions{SaveOnExit: true})
	periodic := rt.NewGroup("Periodic", &GroupOptions{SavePeriodically: true, SaveInterval: longInterval})
	defer periodic.task.Stop()

	assert.False(t, quiet.CreateLogger("a", nil).Retains())
	assert.True(t, quiet.CreateLogger("b", &LoggerOptions{SaveOnExit: true}).Retains())
	assert.True(t, saving.CreateLogger("a", nil).Retains())
	assert.True(t, saving.GetOrCreateLogger("c").Retains())
	assert.True(t, periodic.CreateLogger("a", nil).Retains())
}

func TestGroupSnapshotDocument(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	g := rt.NewGroup("Doc", &GroupOptions{SaveOnExit: true})

	first := g.CreateLogger("first", nil)
	second := g.CreateLogger("second", nil)
	second.Info("from second")
	first.Info("from first")

	doc := g.Snapshot()
	assert.Equal(t, "Doc", doc.Name)
	assert.Equal(t, g.StartTime().UnixMilli(), doc.StartTime)
	assert.Nil(t, doc.EndTime)

	require.Len(t, doc.Loggers, 2)
	assert.Equal(t, "first", doc.Loggers[0].Name, "member order, not activity order")
	assert.Equal(t, "second", doc.Loggers[1].Name)
	require.Len(t, doc.Loggers[0].RawLogs, 1)
	assert.Contains(t, doc.Loggers[0].RawLogs[0], "[     Doc] first: from first")
}

func TestGroupEnd(t *testing.T) {
	rt, _, _ := createTestRuntime(t)
	g := rt.NewGroup("Ending", &GroupOptions{SaveOnExit: true})
	member := g.CreateLogger("member", nil)

	g.End()

	_, ended := g.EndTime()
	assert.True(t, ended)
	assert.NotNil(t, g.Snapshot().EndTime)

	_, memberEnded := member.EndTime()
	assert.False(t, memberEnded, "members are not ended with the group")
	assert.Empty(t, member.Entries())
}

func TestSystemGroup(t *testing.T) {
	rt, _, _ := createTestRuntime(t)

	assert.Equal(t, "[  System] main", rt.Main().Prefix())
	assert.False(t, rt.Main().Retains())

	members := rt.System().Loggers()
	require.Len(t, members, 1)
	assert.Same(t, rt.Main(), members[0])
}
