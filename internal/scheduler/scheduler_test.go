package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/launcher"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
	"github.com/tachyon-project/tachyon-master/internal/prefixlist"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(t *testing.T) (*Scheduler, *namespace.Namespace, *lineage.Graph, *launcher.Fake) {
	t.Helper()
	ns := namespace.New(prefixlist.New(nil), prefixlist.New(nil), nil)
	deps := lineage.New()
	fake := &launcher.Fake{}
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	return New(ns, deps, clk, fake, testLogger(), "/tachyon"), ns, deps, fake
}

func TestTick_LaunchesDependencyWhoseParentsArePresent(t *testing.T) {
	s, ns, deps, fake := newTestScheduler(t)

	ns.Lock()
	parentID, err := ns.Create("/p", false, true, -1, nil, 0)
	require.NoError(t, err)
	ns.Unlock()

	deps.Lock()
	deps.Install(&lineage.Dependency{
		ID:                 1,
		ParentFiles:        []int32{parentID},
		Command:            "prog --out /c",
		ParentDependencies: map[int32]struct{}{},
		ChildDependencies:  map[int32]struct{}{},
		UnfinishedChildren: map[int32]struct{}{},
		LostFiles:          map[int32]struct{}{20: {}},
	})
	deps.AddMustRecompute(1)
	deps.Unlock()

	s.Tick(context.Background())

	require.Len(t, fake.Launches, 1)
	assert.Contains(t, fake.Launches[0], "prog --out /c")
	assert.Contains(t, fake.Launches[0], "rerun 1")

	deps.Lock()
	assert.NotContains(t, deps.MustRecomputeDeps(), int32(1))
	assert.True(t, deps.IsBeingRecomputed(20))
	assert.False(t, deps.IsLost(20))
	deps.Unlock()
}

// When the blocking parent file itself has a dependency with no further
// unmet parents (a base recomputation, e.g. re-downloading raw input),
// that ancestor dependency is launched immediately and the original
// dependency is left pending for the next tick, once the parent
// reappears.
func TestTick_CascadesToLostParentsDependency(t *testing.T) {
	s, ns, deps, fake := newTestScheduler(t)

	ns.Lock()
	parentID, err := ns.Create("/p", false, true, -1, nil, 0)
	require.NoError(t, err)
	n := ns.Get(parentID)
	n.File.DependencyID = 2
	ns.Unlock()

	deps.Lock()
	deps.Install(&lineage.Dependency{
		ID:                 2,
		ParentFiles:        nil,
		Command:            "prog --out /p",
		ParentDependencies: map[int32]struct{}{},
		ChildDependencies:  map[int32]struct{}{},
		UnfinishedChildren: map[int32]struct{}{},
		LostFiles:          map[int32]struct{}{},
	})
	deps.Install(&lineage.Dependency{
		ID:                 1,
		ParentFiles:        []int32{parentID},
		Command:            "prog --out /c",
		ParentDependencies: map[int32]struct{}{},
		ChildDependencies:  map[int32]struct{}{},
		UnfinishedChildren: map[int32]struct{}{},
		LostFiles:          map[int32]struct{}{20: {}},
	})
	deps.ReportLostFile(parentID, 2)
	deps.AddMustRecompute(1)
	deps.Unlock()

	s.Tick(context.Background())

	require.Len(t, fake.Launches, 1)
	assert.Contains(t, fake.Launches[0], "prog --out /p")

	deps.Lock()
	assert.Contains(t, deps.MustRecomputeDeps(), int32(1))
	assert.NotContains(t, deps.MustRecomputeDeps(), int32(2))
	assert.True(t, deps.IsBeingRecomputed(parentID))
	deps.Unlock()
}

func TestTick_NoPendingDependencies_NoOp(t *testing.T) {
	s, _, _, fake := newTestScheduler(t)
	s.Tick(context.Background())
	assert.Empty(t, fake.Launches)
}

func TestTick_RerunCounterIncrementsAcrossLaunches(t *testing.T) {
	s, ns, deps, fake := newTestScheduler(t)

	ns.Lock()
	parentID, err := ns.Create("/p", false, true, -1, nil, 0)
	require.NoError(t, err)
	ns.Unlock()

	deps.Lock()
	deps.Install(&lineage.Dependency{
		ID:                 1,
		ParentFiles:        []int32{parentID},
		Command:            "prog",
		ParentDependencies: map[int32]struct{}{},
		ChildDependencies:  map[int32]struct{}{},
		UnfinishedChildren: map[int32]struct{}{},
		LostFiles:          map[int32]struct{}{},
	})
	deps.AddMustRecompute(1)
	deps.Unlock()

	s.Tick(context.Background())
	require.Len(t, fake.Launches, 1)
	assert.Contains(t, fake.Launches[0], "rerun 1")

	deps.Lock()
	deps.AddMustRecompute(1)
	deps.Unlock()

	s.Tick(context.Background())
	require.Len(t, fake.Launches, 2)
	assert.Contains(t, fake.Launches[1], "rerun 2")
}
