package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachyon-project/tachyon-master/internal/errs"
)

func TestRegister_AllocatesIDsFromStartPrefix(t *testing.T) {
	r := New(5_000_000)
	r.Lock()
	defer r.Unlock()

	id1, evicted1, _ := r.Register("10.0.0.1:9000", 1000, 0, 0)
	id2, evicted2, _ := r.Register("10.0.0.2:9000", 1000, 0, 0)

	assert.Nil(t, evicted1)
	assert.Nil(t, evicted2)
	assert.Equal(t, int64(5_000_001), id1)
	assert.Equal(t, int64(5_000_002), id2)
}

func TestRegister_CollisionEvictsPriorWorker(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	id1, _, _ := r.Register("10.0.0.1:9000", 1000, 0, 0)
	id2, evicted, _ := r.Register("10.0.0.1:9000", 2000, 0, 100)

	require.NotNil(t, evicted)
	assert.Equal(t, id1, evicted.ID)
	assert.NotEqual(t, id1, id2)
	assert.Nil(t, r.Get(id1))
	assert.NotNil(t, r.Get(id2))
}

func TestHeartbeat_UnknownWorkerReturnsRegister(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	cmd := r.Heartbeat(999, 0, nil, 0)
	assert.Equal(t, CommandRegister, cmd)
}

func TestHeartbeat_KnownWorkerUpdatesAndRemovesFiles(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	id, _, _ := r.Register("10.0.0.1:9000", 1000, 0, 0)
	r.AddFile(id, 1)
	r.AddFile(id, 2)

	cmd := r.Heartbeat(id, 500, []int32{1}, 10)

	assert.Equal(t, CommandNothing, cmd)
	info := r.Get(id)
	require.NotNil(t, info)
	assert.Equal(t, int64(500), info.UsedBytes)
	assert.Equal(t, int64(10), info.LastUpdatedMs)
	assert.NotContains(t, info.Files, int32(1))
	assert.Contains(t, info.Files, int32(2))
}

func TestTimedOut_RemovesStaleWorkersFromBothIndices(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	id, _, _ := r.Register("10.0.0.1:9000", 1000, 0, 0)

	stale := r.TimedOut(20_000, 10_000)

	require.Len(t, stale, 1)
	assert.Equal(t, id, stale[0].ID)
	assert.Nil(t, r.Get(id))
	assert.Equal(t, 0, r.Count())
}

func TestTimedOut_KeepsFreshWorkers(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	r.Register("10.0.0.1:9000", 1000, 0, 15_000)

	stale := r.TimedOut(20_000, 10_000)
	assert.Empty(t, stale)
	assert.Equal(t, 1, r.Count())
}

func TestDrainLost_FIFO(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	a := &Info{ID: 1}
	b := &Info{ID: 2}
	r.EnqueueLost(a)
	r.EnqueueLost(b)

	drained := r.DrainLost()
	require.Len(t, drained, 2)
	assert.Equal(t, int64(1), drained[0].ID)
	assert.Equal(t, int64(2), drained[1].ID)
	assert.Empty(t, r.DrainLost())
}

func TestGetWorker_ByHost(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	r.Register("10.0.0.1:9000", 1000, 0, 0)
	r.Register("10.0.0.2:9000", 1000, 0, 0)

	info, err := r.GetWorker(false, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:9000", info.Address)
}

func TestGetWorker_NoLocalWorker(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	_, err := r.GetWorker(false, "10.0.0.9")
	assert.ErrorIs(t, err, errs.ErrNoLocalWorker)
}

func TestGetWorker_RandomFromEmptyRegistryFails(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	_, err := r.GetWorker(true, "")
	assert.ErrorIs(t, err, errs.ErrNoLocalWorker)
}

func TestGetWorker_RandomPicksFromRegistry(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	id1, _, _ := r.Register("10.0.0.1:9000", 1000, 0, 0)
	id2, _, _ := r.Register("10.0.0.2:9000", 1000, 0, 0)

	info, err := r.GetWorker(true, "")
	require.NoError(t, err)
	assert.Contains(t, []int64{id1, id2}, info.ID)
}

func TestCapacityAndUsedBytes_SumAcrossWorkers(t *testing.T) {
	r := New(0)
	r.Lock()
	defer r.Unlock()

	r.Register("10.0.0.1:9000", 1000, 100, 0)
	r.Register("10.0.0.2:9000", 2000, 200, 0)

	assert.Equal(t, int64(3000), r.CapacityBytes())
	assert.Equal(t, int64(300), r.UsedBytes())
}
