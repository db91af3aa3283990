package master

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachyon-project/tachyon-master/cfg"
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/launcher"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/liveness"
	"github.com/tachyon-project/tachyon-master/internal/scheduler"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *cfg.Config {
	t.Helper()
	dir := t.TempDir()
	c := &cfg.Config{}
	c.Master = cfg.GetDefaultMasterConfig()
	c.Master.CheckpointFile = cfg.ResolvedPath(filepath.Join(dir, "checkpoint"))
	c.Master.LogFile = cfg.ResolvedPath(filepath.Join(dir, "journal.log"))
	c.Master.MaxColumns = 1000
	c.Master.WorkerTimeoutMs = 10_000
	return c
}

func openTestMaster(t *testing.T, c *cfg.Config, clk clock.Clock) *State {
	t.Helper()
	s, err := Open(c, clk, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndList_SimpleCreate(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	id, err := s.CreateFile("/a/b", false, true, -1, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), id) // root=1, /a=2, /a/b=3

	paths, err := s.Ls("/a", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b"}, paths)

	info, err := s.GetFileInfoByPath("/a/b")
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.False(t, info.InMemory)
}

func TestCreateRawTable_ListsColumns(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	_, err := s.CreateRawTable("/t", 3, []byte("m"))
	require.NoError(t, err)

	paths, err := s.Ls("/t", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/t/COL_0", "/t/COL_1", "/t/COL_2"}, paths)

	info, err := s.GetRawTableInfoByPath("/t")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), info.Columns)
	assert.Equal(t, []byte("m"), info.Metadata)
}

func TestCreateRawTable_RejectsOutOfRangeColumns(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	_, err := s.CreateRawTable("/t0", 0, nil)
	assert.ErrorIs(t, err, errs.ErrTableColumn)

	_, err = s.CreateRawTable("/tmax", c.Master.MaxColumns, nil)
	assert.ErrorIs(t, err, errs.ErrTableColumn)
}

func TestCacheAndCheckpoint_Scenario(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	w := s.RegisterWorker("10.0.0.1:9000", 1000, 0, nil)

	fid, err := s.CreateFile("/f", false, true, -1, nil)
	require.NoError(t, err)

	depID, err := s.CachedFile(w, 100, fid, 42)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), depID)

	locs, err := s.GetFileLocations(fid)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "10.0.0.1:9000", locs[0].Address)

	ok, err := s.AddCheckpoint(w, fid, 42, "hdfs://example/f")
	require.NoError(t, err)
	assert.True(t, ok)

	info, err := s.GetFileInfoByPath("/f")
	require.NoError(t, err)
	assert.Equal(t, "hdfs://example/f", info.CheckpointPath)

	_, err = s.CachedFile(w, 100, fid, 43)
	assert.ErrorIs(t, err, errs.ErrSuspectedFileSize)
}

func TestRename_RoundTripsThroughRestart(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	_, err := s.CreateFile("/x/y", false, true, -1, nil)
	require.NoError(t, err)
	require.NoError(t, s.Rename("/x/y", "/x/z"))

	oldID, err := s.GetFileID("/x/y")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), oldID)

	newID, err := s.GetFileID("/x/z")
	require.NoError(t, err)
	assert.NotEqual(t, int32(-1), newID)

	require.NoError(t, s.Close())

	s2 := openTestMaster(t, c, clk)
	gotID, err := s2.GetFileID("/x/z")
	require.NoError(t, err)
	assert.Equal(t, newID, gotID)
}

func TestJournalCompaction_RecoveredCounterNeverReused(t *testing.T) {
	c := testConfig(t)
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)

	var lastID int32
	for i := 0; i < 100; i++ {
		id, err := s.CreateFile(filepath.ToSlash(filepath.Join("/", "f"+itoa(i))), false, true, -1, nil)
		require.NoError(t, err)
		lastID = id
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, s.DeleteByPath("/f"+itoa(i)))
	}

	require.NoError(t, s.Checkpoint())
	require.NoError(t, s.Close())

	s2 := openTestMaster(t, c, clk)
	newID, err := s2.CreateFile("/after-restart", false, true, -1, nil)
	require.NoError(t, err)
	assert.Greater(t, newID, lastID)
}

func itoa(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var out []byte
	for i > 0 {
		out = append([]byte{digits[i%10]}, out...)
		i /= 10
	}
	return string(out)
}

// TestLineageRecovery_Scenario drives spec §8's end-to-end scenario 4
// through the real liveness monitor and recomputation scheduler, wired
// the way cmd/tachyon-master wires them.
func TestLineageRecovery_Scenario(t *testing.T) {
	c := testConfig(t)
	c.Master.ProactiveRecovery = false
	clk := clock.NewSimulatedClock(time.UnixMilli(0))
	s := openTestMaster(t, c, clk)
	fakeLauncher := &launcher.Fake{}

	mon := liveness.New(s.Namespace(), s.Deps(), s.Workers(), clk, fakeLauncher, discardLogger(),
		c.Master.WorkerTimeoutMs, c.Master.HeartbeatIntervalMs, c.Master.ProactiveRecovery)
	sched := scheduler.New(s.Namespace(), s.Deps(), clk, fakeLauncher, discardLogger(), s.HomeDir())

	w1 := s.RegisterWorker("10.0.0.1:9000", 1000, 0, nil)

	_, err := s.CreateFile("/p", false, true, -1, nil)
	require.NoError(t, err)
	_, err = s.CreateFile("/c", false, true, -1, nil)
	require.NoError(t, err)

	pID, err := s.GetFileID("/p")
	require.NoError(t, err)
	cID, err := s.GetFileID("/c")
	require.NoError(t, err)

	_, err = s.CachedFile(w1, 10, pID, 10)
	require.NoError(t, err)

	depID, err := s.CreateDependency([]string{"/p"}, []string{"/c"}, "prog --out /c", nil, "", "fw", "1", lineage.Narrow)
	require.NoError(t, err)

	_, err = s.CachedFile(w1, 10, cID, 20)
	require.NoError(t, err)

	// Advance past the timeout and sweep: both /p and /c were only on w1.
	clk.AdvanceTime(11 * time.Second)
	mon.Sweep(context.Background())

	info, err := s.GetClientDependencyInfo(depID)
	require.NoError(t, err)
	assert.Contains(t, info.LostFiles, cID)

	// /p has no dependency of its own, so it's a permanent, unrecoverable
	// loss; the dependency itself cannot launch yet.
	sched.Tick(context.Background())
	assert.Empty(t, fakeLauncher.Launches)

	// Once /p reappears on a new worker, the dependency becomes launchable.
	w2 := s.RegisterWorker("10.0.0.2:9000", 1000, 0, nil)
	_, err = s.CachedFile(w2, 10, pID, 10)
	require.NoError(t, err)

	sched.Tick(context.Background())
	require.Len(t, fakeLauncher.Launches, 1)
	assert.Contains(t, fakeLauncher.Launches[0], "prog --out /c")
}
