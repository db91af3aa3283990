// Package liveness implements the periodic worker-timeout sweep and
// cleanup described in spec §4.3: stale workers are detected, enqueued,
// and cleaned up under the namespace and dependency locks, and lost files
// without a dependency are logged as an unrecoverable permanent loss.
package liveness

import (
	"context"
	"log/slog"
	"time"

	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/launcher"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
	"github.com/tachyon-project/tachyon-master/internal/worker"
)

// Monitor runs the periodic liveness sweep on its own long-lived task,
// cancelled via ctx (spec §9's "background loops... cancelled on
// shutdown").
type Monitor struct {
	ns      *namespace.Namespace
	deps    *lineage.Graph
	workers *worker.Registry

	clk     clock.Clock
	restart launcher.RestartHook
	log     *slog.Logger

	timeoutMs         int64
	intervalMs        int64
	proactiveRecovery bool
}

// New builds a Monitor. intervalMs is WORKER_HEARTBEAT_INTERVAL_MS;
// timeoutMs is WORKER_TIMEOUT_MS.
func New(ns *namespace.Namespace, deps *lineage.Graph, workers *worker.Registry, clk clock.Clock, restart launcher.RestartHook, log *slog.Logger, timeoutMs, intervalMs int64, proactiveRecovery bool) *Monitor {
	return &Monitor{
		ns: ns, deps: deps, workers: workers,
		clk: clk, restart: restart, log: log,
		timeoutMs: timeoutMs, intervalMs: intervalMs,
		proactiveRecovery: proactiveRecovery,
	}
}

// Run loops until ctx is cancelled, sweeping once per intervalMs.
func (m *Monitor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.clk.After(time.Duration(m.intervalMs) * time.Millisecond):
			m.Sweep(ctx)
		}
	}
}

// Sweep performs one liveness pass: timeout detection, then cleanup of
// whatever the lost-workers queue holds (which may include workers
// evicted by a registration collision as well as ones just timed out).
// Exported so callers (and tests) can drive it deterministically without
// waiting on Run's ticker.
func (m *Monitor) Sweep(ctx context.Context) {
	nowMs := clock.NowMs(m.clk)

	m.workers.Lock()
	stale := m.workers.TimedOut(nowMs, m.timeoutMs)
	for _, info := range stale {
		m.log.Error("worker timed out", "worker_id", info.ID, "address", info.Address)
		m.workers.EnqueueLost(info)
	}
	lost := m.workers.DrainLost()
	m.workers.Unlock()

	if len(lost) == 0 {
		return
	}

	m.ns.Lock()
	m.deps.Lock()
	for _, info := range lost {
		m.cleanupWorker(info)
	}
	m.deps.Unlock()
	m.ns.Unlock()

	if err := m.restart.Run(ctx); err != nil {
		m.log.Error("worker-restart hook failed", "error", err)
	}
}

// cleanupWorker implements spec §4.3's liveness cleanup step 2 for one
// lost worker. Requires ns and deps locks held.
func (m *Monitor) cleanupWorker(info *worker.Info) {
	loc := inode.Location{WorkerID: info.ID, Address: info.Address}
	for fileID := range info.Files {
		m.ns.RemoveLocation(fileID, loc)

		n := m.ns.Get(fileID)
		if n == nil || n.Kind != inode.KindFile {
			continue
		}
		if n.File.CheckpointPath != "" || n.File.InMemory() {
			continue
		}

		recoverable := m.deps.ReportLostFile(fileID, n.File.DependencyID)
		if !recoverable {
			m.log.Error("permanent data loss: file has no checkpoint, no in-memory copy, and no dependency",
				"file_id", fileID)
			continue
		}
		if !m.proactiveRecovery {
			m.deps.AddMustRecompute(n.File.DependencyID)
		}
	}
}
