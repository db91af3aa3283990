// Package scheduler implements the recomputation scheduler described in
// spec §4.4: a single long-lived task that continuously finds
// must-recompute dependencies whose parent files are all present,
// launches their (rerun-counter-suffixed) commands through the external
// command launcher, and cascades the same check to ancestor dependencies
// whenever a parent file turns out to be lost too.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/launcher"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
)

var tracer = otel.Tracer("tachyon-master/scheduler")

// Scheduler drives spec §4.4's recomputation loop.
type Scheduler struct {
	ns      *namespace.Namespace
	deps    *lineage.Graph
	clk     clock.Clock
	launch  launcher.CommandLauncher
	log     *slog.Logger
	homeDir string

	sleep time.Duration

	// onLaunch, if set, is called once per launch attempt, whether or not
	// the launcher call succeeds. internal/metrics wires its recomputation-launch counter
	// in through this hook via cmd/tachyon-master.
	onLaunch func()
}

// SetOnLaunch installs fn to be called once per recomputation launch
// attempt.
func (s *Scheduler) SetOnLaunch(fn func()) { s.onLaunch = fn }

// New builds a Scheduler. homeDir is TACHYON_HOME; the launcher writes
// each launch's output to homeDir/logs/rerun-<dependency id>.log.
func New(ns *namespace.Namespace, deps *lineage.Graph, clk clock.Clock, launch launcher.CommandLauncher, log *slog.Logger, homeDir string) *Scheduler {
	return &Scheduler{
		ns: ns, deps: deps, clk: clk, launch: launch, log: log,
		homeDir: homeDir,
		sleep:   time.Second,
	}
}

// Run loops until ctx is cancelled, per spec §4.4's termination clause.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			return
		case <-s.clk.After(s.sleep):
		}
	}
}

// Tick performs one scheduling pass, exported so tests can drive it
// without waiting on Run's sleep.
func (s *Scheduler) Tick(ctx context.Context) {
	s.ns.Lock()
	s.deps.Lock()
	launchable := s.findLaunchable()
	s.deps.Unlock()
	s.ns.Unlock()

	for _, l := range launchable {
		s.launchOne(ctx, l)
	}
}

type launchItem struct {
	depID     int32
	command   string
	lostFiles []int32
}

// depCheck is one dependency's verdict from a findLaunchable fan-out round:
// whether it can launch now, which ancestor dependencies its blocked parent
// files cascade to, and (only when launchable) its lost-file set.
type depCheck struct {
	dep         *lineage.Dependency
	canLaunch   bool
	cascadeDeps []int32
	lostFiles   []int32
}

// findLaunchable implements spec §4.4 steps 2-4's BFS, minus the launch
// itself (which must happen outside the locks). Requires ns and deps held.
//
// Each BFS level's per-dependency parent-file scan (checkDependency) only
// reads the graph and namespace, so a level's dependencies are checked
// concurrently via errgroup rather than one at a time; the results are then
// merged back sequentially, since the merge step mutates must_recompute_deps,
// being_recomputed_files, and the rerun counter and must stay single-threaded.
func (s *Scheduler) findLaunchable() []launchItem {
	pending := s.deps.MustRecomputeDeps()
	if len(pending) == 0 {
		return nil
	}

	queued := make(map[int32]struct{}, len(pending))
	level := append([]int32(nil), pending...)
	for _, id := range level {
		queued[id] = struct{}{}
	}

	var launchable []launchItem
	for len(level) > 0 {
		results := make([]depCheck, len(level))
		var g errgroup.Group
		for i, depID := range level {
			i, depID := i, depID
			g.Go(func() error {
				results[i] = s.checkDependency(depID)
				return nil
			})
		}
		_ = g.Wait() // checkDependency never errors; Wait is purely a barrier here.

		var next []int32
		for _, r := range results {
			if r.dep == nil {
				continue
			}
			for _, parentDepID := range r.cascadeDeps {
				if _, ok := queued[parentDepID]; ok {
					continue
				}
				s.deps.AddMustRecompute(parentDepID)
				queued[parentDepID] = struct{}{}
				next = append(next, parentDepID)
			}

			if !r.canLaunch {
				continue
			}

			rerun := s.deps.NextRerunCount(r.dep.ID)
			command := fmt.Sprintf("%s &> %s %d", r.dep.Command, filepath.Join(s.homeDir, "logs", "rerun"), rerun)

			s.deps.RemoveMustRecompute(r.dep.ID)
			lostSet := make(map[int32]struct{}, len(r.lostFiles))
			for _, fid := range r.lostFiles {
				lostSet[fid] = struct{}{}
			}
			s.deps.MarkBeingRecomputed(lostSet)

			launchable = append(launchable, launchItem{depID: r.dep.ID, command: command, lostFiles: r.lostFiles})
		}
		level = next
	}
	return launchable
}

// checkDependency is the per-dependency parent-file scan fanned out by
// findLaunchable: it decides whether depID can launch and which ancestor
// dependencies to cascade to, without mutating any shared bookkeeping set.
func (s *Scheduler) checkDependency(depID int32) depCheck {
	d := s.deps.Get(depID)
	if d == nil {
		return depCheck{}
	}

	canLaunch := true
	var cascade []int32
	for _, parentFileID := range d.ParentFiles {
		if !s.deps.IsLost(parentFileID) || s.deps.IsBeingRecomputed(parentFileID) {
			continue
		}
		canLaunch = false

		n := s.ns.Get(parentFileID)
		if n == nil || n.File == nil || n.File.DependencyID < 0 {
			continue
		}
		cascade = append(cascade, n.File.DependencyID)
	}

	var lost []int32
	if canLaunch {
		lost = make([]int32, 0, len(d.LostFiles))
		for fid := range d.LostFiles {
			lost = append(lost, fid)
		}
	}
	return depCheck{dep: d, canLaunch: canLaunch, cascadeDeps: cascade, lostFiles: lost}
}

// launchOne fires the external command-launcher for one dependency,
// outside any lock. A launch failure is logged and absorbed per spec §7 —
// the scheduler continues with the next tick rather than retrying.
func (s *Scheduler) launchOne(ctx context.Context, l launchItem) {
	ctx, span := tracer.Start(ctx, "scheduler.launch", oteltrace.WithAttributes(
		attribute.Int("dependency_id", int(l.depID)),
		attribute.Int("lost_files", len(l.lostFiles)),
	))
	defer span.End()

	logPath := filepath.Join(s.homeDir, "logs", fmt.Sprintf("rerun-%d.log", l.depID))
	s.log.Info("launching recomputation", "dependency_id", l.depID, "lost_files", l.lostFiles)
	if err := s.launch.Launch(ctx, l.command, logPath); err != nil {
		s.log.Error("recomputation launch failed", "dependency_id", l.depID, "error", err)
	}
	if s.onLaunch != nil {
		s.onLaunch()
	}
}
