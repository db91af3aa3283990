// Package lineage implements the dependency DAG and the bookkeeping sets
// that drive lineage-based recovery (spec §3, §4.4): every derived file
// carries the id of the Dependency that produced it, and the Graph tracks
// which dependencies are uncheckpointed, prioritized for checkpointing, or
// in need of recomputation.
//
// A Dependency references its parent/child dependencies by id, not by
// pointer — the DAG is an id map plus adjacency sets of ids, traversed by
// BFS, per the design notes on avoiding shared-ownership graph structures.
//
// Graph owns its own mutex and guards the dependency map and all
// bookkeeping sets (uncheckpointed_deps, priority_deps, lost_files,
// being_recomputed_files, must_recompute_deps). Callers that need a
// cross-component atomic operation (e.g. createDependency, which also
// touches the namespace) acquire the namespace lock before this one and
// hold both for the duration, per the documented ns-before-deps order.
// Methods here assume the lock is already held by the caller unless noted.
package lineage

import "sync"

// DependencyType distinguishes a Narrow dependency (each child depends on
// a fixed subset of parents) from a Wide one (each child may depend on any
// parent), matching spec §3.
type DependencyType int

const (
	Narrow DependencyType = iota
	Wide
)

func (t DependencyType) String() string {
	switch t {
	case Narrow:
		return "Narrow"
	case Wide:
		return "Wide"
	default:
		return "Unknown"
	}
}

// Dependency records the command that produced ChildFiles from ParentFiles,
// per spec §3.
type Dependency struct {
	ID               int32
	ParentFiles      []int32
	ChildFiles       []int32
	Command          string
	Data             [][]byte
	Comment          string
	Framework        string
	FrameworkVersion string
	Type             DependencyType
	CreationTimeMs   int64

	ParentDependencies  map[int32]struct{}
	ChildDependencies   map[int32]struct{}
	UnfinishedChildren  map[int32]struct{}
	LostFiles           map[int32]struct{}
}

// Checkpointed reports whether every child file of this dependency has
// been checkpointed.
func (d *Dependency) Checkpointed() bool {
	return len(d.UnfinishedChildren) == 0
}

// Graph holds the dependency DAG and the global bookkeeping sets described
// in spec §3 and §5 ("deps" lock).
type Graph struct {
	mu sync.Mutex

	deps          map[int32]*Dependency
	nextID        int32
	rerunCounters map[int32]int32

	uncheckpointedDeps  map[int32]struct{}
	priorityDeps        []int32
	lostFiles           map[int32]struct{}
	beingRecomputed     map[int32]struct{}
	mustRecomputeDeps   map[int32]struct{}
}

// New returns an empty Graph with dependency ids allocated starting at 1.
func New() *Graph {
	return &Graph{
		deps:               make(map[int32]*Dependency),
		nextID:              1,
		rerunCounters:       make(map[int32]int32),
		uncheckpointedDeps:  make(map[int32]struct{}),
		lostFiles:           make(map[int32]struct{}),
		beingRecomputed:     make(map[int32]struct{}),
		mustRecomputeDeps:   make(map[int32]struct{}),
	}
}

// Lock and Unlock implement sync.Locker for the "deps" lock (spec §5).
func (g *Graph) Lock()   { g.mu.Lock() }
func (g *Graph) Unlock() { g.mu.Unlock() }

// NextID allocates and returns the next dependency id. Requires the lock
// held.
func (g *Graph) NextID() int32 {
	id := g.nextID
	g.nextID++
	return id
}

// BumpCounter raises the dependency-id counter to at least id, used during
// journal recovery. Requires the lock held.
func (g *Graph) BumpCounter(id int32) {
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// Counter returns the current dependency-id counter (the next id that
// would be allocated). Requires the lock held.
func (g *Graph) Counter() int32 { return g.nextID }

// Install inserts or replaces a dependency, as done during journal replay
// and live creation. It recomputes uncheckpointedDeps membership. Requires
// the lock held.
func (g *Graph) Install(d *Dependency) {
	g.deps[d.ID] = d
	if d.Checkpointed() {
		delete(g.uncheckpointedDeps, d.ID)
	} else {
		g.uncheckpointedDeps[d.ID] = struct{}{}
	}
}

// Get returns the dependency with the given id, or nil. Requires the lock
// held.
func (g *Graph) Get(id int32) *Dependency {
	return g.deps[id]
}

// All returns a snapshot slice of every dependency. Requires the lock held.
func (g *Graph) All() []*Dependency {
	out := make([]*Dependency, 0, len(g.deps))
	for _, d := range g.deps {
		out = append(out, d)
	}
	return out
}

// MarkChildCheckpointed removes childID from dep's UnfinishedChildren; if
// the dependency becomes fully checkpointed, it is dropped from
// uncheckpointedDeps and priorityDeps. Requires the lock held.
func (g *Graph) MarkChildCheckpointed(depID, childID int32) {
	d := g.deps[depID]
	if d == nil {
		return
	}
	delete(d.UnfinishedChildren, childID)
	if d.Checkpointed() {
		delete(g.uncheckpointedDeps, depID)
		g.removeFromPriority(depID)
	}
}

func (g *Graph) removeFromPriority(depID int32) {
	for i, id := range g.priorityDeps {
		if id == depID {
			g.priorityDeps = append(g.priorityDeps[:i], g.priorityDeps[i+1:]...)
			return
		}
	}
}

// RegisterChildDependency records that childDepID depends on parentDepID,
// linking them in both directions. Requires the lock held.
func (g *Graph) RegisterChildDependency(parentDepID, childDepID int32) {
	parent := g.deps[parentDepID]
	if parent == nil {
		return
	}
	if parent.ChildDependencies == nil {
		parent.ChildDependencies = make(map[int32]struct{})
	}
	parent.ChildDependencies[childDepID] = struct{}{}
}

// ReportLostFile adds fileID to the global lost_files set and, if depID is
// a real dependency (>= 0), to that dependency's LostFiles. It does NOT
// touch must_recompute_deps — callers decide that separately, since the
// client-facing reportLostFile RPC (spec §4.4) always schedules
// recomputation, while the liveness monitor's internal cleanup (spec
// §4.3) only does so when MASTER_PROACTIVE_RECOVERY is false. Returns
// false if depID is negative (caller must log an unrecoverable permanent
// loss). Requires the lock held.
func (g *Graph) ReportLostFile(fileID, depID int32) bool {
	g.lostFiles[fileID] = struct{}{}
	if depID < 0 {
		return false
	}
	d := g.deps[depID]
	if d == nil {
		return false
	}
	if d.LostFiles == nil {
		d.LostFiles = make(map[int32]struct{})
	}
	d.LostFiles[fileID] = struct{}{}
	return true
}

// ClearLost removes fileID from the global lost_files and
// being_recomputed_files sets, used by cachedFile/addCheckpoint when a
// file reappears. Requires the lock held.
func (g *Graph) ClearLost(fileID int32) {
	delete(g.lostFiles, fileID)
	delete(g.beingRecomputed, fileID)
}

// IsLost reports whether fileID is currently in the lost_files set.
// Requires the lock held.
func (g *Graph) IsLost(fileID int32) bool {
	_, ok := g.lostFiles[fileID]
	return ok
}

// LostFileCount returns the size of the global lost_files set, for
// internal/metrics' gauge. Requires the lock held.
func (g *Graph) LostFileCount() int { return len(g.lostFiles) }

// UncheckpointedDepCount returns the size of uncheckpointed_deps, for
// internal/metrics' gauge. Requires the lock held.
func (g *Graph) UncheckpointedDepCount() int { return len(g.uncheckpointedDeps) }

// IsBeingRecomputed reports whether fileID is in being_recomputed_files.
// Requires the lock held.
func (g *Graph) IsBeingRecomputed(fileID int32) bool {
	_, ok := g.beingRecomputed[fileID]
	return ok
}

// MustRecomputeDeps returns a snapshot of the must_recompute_deps set.
// Requires the lock held.
func (g *Graph) MustRecomputeDeps() []int32 {
	out := make([]int32, 0, len(g.mustRecomputeDeps))
	for id := range g.mustRecomputeDeps {
		out = append(out, id)
	}
	return out
}

// AddMustRecompute adds depID to must_recompute_deps. Requires the lock
// held.
func (g *Graph) AddMustRecompute(depID int32) {
	g.mustRecomputeDeps[depID] = struct{}{}
}

// RemoveMustRecompute removes depID from must_recompute_deps, used once a
// dependency is launched. Requires the lock held.
func (g *Graph) RemoveMustRecompute(depID int32) {
	delete(g.mustRecomputeDeps, depID)
}

// MarkBeingRecomputed moves every id in fileIDs from lost_files into
// being_recomputed_files, maintaining the lost/being-recomputed
// exclusivity invariant. Requires the lock held.
func (g *Graph) MarkBeingRecomputed(fileIDs map[int32]struct{}) {
	for id := range fileIDs {
		delete(g.lostFiles, id)
		g.beingRecomputed[id] = struct{}{}
	}
}

// NextRerunCount returns the next rerun counter for depID, starting at 1.
// Requires the lock held.
func (g *Graph) NextRerunCount(depID int32) int32 {
	g.rerunCounters[depID]++
	return g.rerunCounters[depID]
}

// GetPriorityDependencyList returns a snapshot of the priority dependency
// list, rebuilding it first if empty per spec §4.4: prefer leaves of the
// lineage DAG among uncheckpointed dependencies (no ChildDependencies);
// fall back to the single oldest uncheckpointed dependency if none
// qualify as leaves. Requires the lock held.
func (g *Graph) GetPriorityDependencyList() []int32 {
	if len(g.priorityDeps) == 0 {
		g.rebuildPriorityDeps()
	}
	out := make([]int32, len(g.priorityDeps))
	copy(out, g.priorityDeps)
	return out
}

func (g *Graph) rebuildPriorityDeps() {
	var oldest *Dependency
	for id := range g.uncheckpointedDeps {
		d := g.deps[id]
		if d == nil {
			continue
		}
		if len(d.ChildDependencies) == 0 {
			g.priorityDeps = append(g.priorityDeps, id)
		}
		if oldest == nil || d.CreationTimeMs < oldest.CreationTimeMs {
			oldest = d
		}
	}
	if len(g.priorityDeps) == 0 && oldest != nil {
		g.priorityDeps = append(g.priorityDeps, oldest.ID)
	}
}
