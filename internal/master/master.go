// Package master implements MasterState (spec §5's "single owned
// MasterState value with internal locks"): it wires the namespace,
// dependency graph, and worker registry together under the three
// documented locks (ns, deps, workers) and exposes the client- and
// worker-facing operations of spec §4 as plain Go methods. internal/rpc
// sits in front of this package and is the only thing that would ever be
// attached to a real transport.
package master

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/tachyon-project/tachyon-master/cfg"
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/journal"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
	"github.com/tachyon-project/tachyon-master/internal/prefixlist"
	"github.com/tachyon-project/tachyon-master/internal/worker"
)

// State is the master's entire mutable universe: the namespace ("ns"
// lock), the dependency graph ("deps" lock), and the worker registry
// ("workers" lock), plus the journal writer shared by namespace ops and
// createDependency's batched append. No field here is a process-wide
// singleton; every goroutine that needs it (liveness, scheduler, an RPC
// handler) is handed this same *State.
type State struct {
	ns      *namespace.Namespace
	deps    *lineage.Graph
	workers *worker.Registry

	jw   *journal.Writer
	clk  clock.Clock
	log  *slog.Logger

	checkpointPath string
	logPath        string
	homeDir        string
	maxColumns     uint32
	proactiveRecovery bool

	journalObserver func(time.Duration)

	startTimeMs int64
	userIDSeq   atomic.Int64
}

// Open builds a State from cfg, recovering prior state from the
// checkpoint and log files per spec §4.2's three-step recovery, then
// writing a fresh checkpoint and truncating the log (step 3), exactly as
// on a clean start with no prior files.
func Open(c *cfg.Config, clk clock.Clock, log *slog.Logger) (*State, error) {
	whitelist := prefixlist.New(prefixlist.ParseConfigValue(c.Home.Whitelist))
	pinlist := prefixlist.New(prefixlist.ParseConfigValue(c.Home.Pinlist))

	ns := namespace.New(whitelist, pinlist, nil)
	deps := lineage.New()

	checkpointPath := c.CheckpointFilePath()
	logPath := c.JournalLogFilePath()

	ns.Lock()
	deps.Lock()
	replayed, err := recoverInto(ns, deps, checkpointPath, logPath)
	deps.Unlock()
	ns.Unlock()
	if err != nil {
		return nil, fmt.Errorf("master: recovery: %w", err)
	}

	s := &State{
		ns:                ns,
		deps:              deps,
		workers:           worker.New(clock.NowMs(clk)),
		clk:               clk,
		log:               log,
		checkpointPath:    checkpointPath,
		logPath:           logPath,
		homeDir:           string(c.Home.Dir),
		maxColumns:        c.Master.MaxColumns,
		proactiveRecovery: c.Master.ProactiveRecovery,
		startTimeMs:       clock.NowMs(clk),
	}

	if err := s.checkpointLocked(); err != nil {
		return nil, fmt.Errorf("master: post-recovery checkpoint: %w", err)
	}
	ns.SetJournal(s.jw)

	log.Info("master recovered",
		"replayed_records", replayed,
		"inode_counter", ns.Counter(),
		"dependency_counter", deps.Counter())

	return s, nil
}

// recoverInto replays checkpointPath then logPath into ns/deps, per spec
// §4.2 steps 1-2. Requires ns and deps locked.
func recoverInto(ns *namespace.Namespace, deps *lineage.Graph, checkpointPath, logPath string) (int, error) {
	count := 0
	apply := func(rec *journal.Record) error {
		count++
		switch rec.Kind {
		case journal.KindInodeFile, journal.KindInodeFolder, journal.KindInodeRawTable:
			ir := rec.Inode
			if ir.ID < 0 {
				ns.Remove(-ir.ID)
				ns.BumpCounter(-ir.ID)
				return nil
			}
			n := journal.ToInode(rec.Kind, ir)
			ns.Install(n)
			ns.BumpCounter(n.ID)
		case journal.KindDependency:
			d := journal.ToDependency(rec.Dependency)
			deps.Install(d)
			deps.BumpCounter(d.ID)
		case journal.KindCheckpointInfo:
			ns.BumpCounter(rec.CheckpointInfo.InodeCounter)
			deps.BumpCounter(rec.CheckpointInfo.DependencyCounter)
		}
		return nil
	}
	if err := journal.Recover(checkpointPath, logPath, apply); err != nil {
		return count, err
	}
	return count, nil
}

// Checkpoint compacts the journal: a fresh checkpoint is written from the
// current in-memory state, the old log is deleted, and a new empty log
// writer is opened, per spec §4.2 step 3. Exposed for callers (startup,
// an operator signal, a periodic ticker) that want to trigger compaction
// explicitly; §4.4's scenario 6 exercises it after a batch of creates and
// deletes.
func (s *State) Checkpoint() error {
	s.ns.Lock()
	defer s.ns.Unlock()
	s.deps.Lock()
	defer s.deps.Unlock()
	return s.checkpointLocked()
}

// checkpointLocked performs the write-checkpoint-then-reopen-log sequence.
// Requires ns and deps locked (or, during Open, no concurrent access yet).
func (s *State) checkpointLocked() error {
	inodes := s.ns.AllInodesBFS()
	deps := s.deps.All()
	if err := journal.WriteCheckpoint(s.checkpointPath, inodes, deps, s.ns.Counter(), s.deps.Counter()); err != nil {
		return err
	}

	if s.jw != nil {
		if err := s.jw.Close(); err != nil {
			return fmt.Errorf("master: close old log writer: %w", err)
		}
	}
	if err := os.Remove(s.logPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("master: remove old log: %w", err)
	}
	nw, err := journal.NewWriter(s.logPath)
	if err != nil {
		return fmt.Errorf("master: open fresh log writer: %w", err)
	}
	nw.Observer = s.journalObserver
	s.jw = nw
	s.ns.SetJournal(nw)
	return nil
}

// SetJournalObserver installs fn to be called with every journal append's
// latency from now on, including across future checkpoint-triggered log
// rotations. internal/metrics' journal-append histogram is wired in this
// way by cmd/tachyon-master, keeping internal/master free of a direct
// dependency on the metrics package.
func (s *State) SetJournalObserver(fn func(time.Duration)) {
	s.journalObserver = fn
	if s.jw != nil {
		s.jw.Observer = fn
	}
}

// Close releases the journal writer. Call once on graceful shutdown.
func (s *State) Close() error {
	if s.jw == nil {
		return nil
	}
	return s.jw.Close()
}

// Namespace, Deps, and Workers expose the underlying components to the
// liveness monitor and recomputation scheduler constructors, which need
// the concrete types directly rather than going through State's method
// set.
func (s *State) Namespace() *namespace.Namespace { return s.ns }
func (s *State) Deps() *lineage.Graph            { return s.deps }
func (s *State) Workers() *worker.Registry       { return s.workers }
func (s *State) Clock() clock.Clock              { return s.clk }
func (s *State) HomeDir() string                 { return s.homeDir }

// GetNewUserID allocates a fresh client-session user id (spec §6's
// getNewUserId), a monotone counter independent of every other id space.
func (s *State) GetNewUserID() int64 {
	return s.userIDSeq.Add(1)
}

// GetStartTimeMs returns the master's start time in milliseconds.
func (s *State) GetStartTimeMs() int64 { return s.startTimeMs }
