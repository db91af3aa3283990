package master

import (
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/journal"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
)

// CreateDependency implements spec §4.4's createDependency. Parent and
// child paths are resolved to file ids first (both must already resolve
// to Files; children must be pre-existing, per spec). Lock order follows
// §5: ns before deps, both held for the duration since the operation
// mutates child inodes and installs the dependency as one unit.
func (s *State) CreateDependency(
	parentPaths, childPaths []string,
	commandPrefix string,
	data [][]byte,
	comment, framework, frameworkVersion string,
	depType lineage.DependencyType,
) (int32, error) {
	nowMs := clock.NowMs(s.clk)

	s.ns.Lock()
	defer s.ns.Unlock()
	s.deps.Lock()
	defer s.deps.Unlock()

	parentIDs, err := s.resolveDependencyFiles(parentPaths)
	if err != nil {
		return 0, err
	}
	childIDs, err := s.resolveDependencyFiles(childPaths)
	if err != nil {
		return 0, err
	}

	parentDeps := make(map[int32]struct{}, len(parentIDs))
	for _, pid := range parentIDs {
		n := s.ns.Get(pid)
		parentDeps[n.File.DependencyID] = struct{}{}
	}

	depID := s.deps.NextID()
	unfinished := make(map[int32]struct{}, len(childIDs))
	updatedChildren := make([]*inode.Inode, 0, len(childIDs))
	for _, cid := range childIDs {
		n, err := s.ns.SetFileDependency(cid, depID)
		if err != nil {
			return 0, err
		}
		if n.File.CheckpointPath == "" {
			unfinished[cid] = struct{}{}
		}
		updatedChildren = append(updatedChildren, n)
	}

	dep := &lineage.Dependency{
		ID:                 depID,
		ParentFiles:        append([]int32(nil), parentIDs...),
		ChildFiles:         append([]int32(nil), childIDs...),
		Command:            commandPrefix,
		Data:               data,
		Comment:            comment,
		Framework:          framework,
		FrameworkVersion:   frameworkVersion,
		Type:               depType,
		CreationTimeMs:     nowMs,
		ParentDependencies: parentDeps,
		ChildDependencies:  make(map[int32]struct{}),
		UnfinishedChildren: unfinished,
		LostFiles:          make(map[int32]struct{}),
	}
	s.deps.Install(dep)
	for pdID := range parentDeps {
		if pdID >= 0 {
			s.deps.RegisterChildDependency(pdID, depID)
		}
	}

	if err := s.journalDependencyCreate(updatedChildren, dep); err != nil {
		return 0, err
	}
	return depID, nil
}

// resolveDependencyFiles resolves each path to a File id: a missing path
// is FileDoesNotExist, an existing non-File is InvalidPath, per spec
// §4.4's "every parent path must resolve to a File; else InvalidPath."
// Requires the ns lock held.
func (s *State) resolveDependencyFiles(paths []string) ([]int32, error) {
	ids := make([]int32, 0, len(paths))
	for _, p := range paths {
		n, err := s.ns.Resolve(p)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, errs.ErrFileDoesNotExist
		}
		if n.Kind != inode.KindFile {
			return nil, errs.ErrInvalidPath
		}
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// journalDependencyCreate appends the updated child inodes (batched) then
// the dependency record, bracketed in one transaction per spec §4.4 /
// §9's atomicity resolution.
func (s *State) journalDependencyCreate(children []*inode.Inode, dep *lineage.Dependency) error {
	txn, err := s.jw.BeginTxn()
	if err != nil {
		return err
	}
	for _, n := range children {
		if err := s.jw.Append(journal.FromInode(n)); err != nil {
			return err
		}
	}
	if err := s.jw.Append(journal.FromDependency(dep)); err != nil {
		return err
	}
	return s.jw.CommitTxn(txn)
}

// ReportLostFile implements spec §4.4's reportLostFile(file_id): always
// schedules recomputation when the file carries a dependency (unlike the
// liveness monitor's internal cleanup, which defers to
// MASTER_PROACTIVE_RECOVERY), and logs an unrecoverable permanent loss
// otherwise.
func (s *State) ReportLostFile(fileID int32) error {
	s.ns.Lock()
	n := s.ns.Get(fileID)
	if n == nil || n.Kind != inode.KindFile {
		s.ns.Unlock()
		return errs.ErrFileDoesNotExist
	}
	depID := n.File.DependencyID
	s.ns.Unlock()

	s.deps.Lock()
	defer s.deps.Unlock()
	if s.deps.ReportLostFile(fileID, depID) {
		s.deps.AddMustRecompute(depID)
	} else {
		s.log.Error("permanent data loss: reported lost file has no dependency", "file_id", fileID)
	}
	return nil
}

// GetClientDependencyInfo implements spec §6's getClientDependencyInfo.
func (s *State) GetClientDependencyInfo(depID int32) (lineage.ClientDependencyInfo, error) {
	s.deps.Lock()
	defer s.deps.Unlock()
	info, ok := s.deps.ClientInfo(depID)
	if !ok {
		return lineage.ClientDependencyInfo{}, errs.ErrDependencyDoesNotExist
	}
	return info, nil
}

// GetPriorityDependencyList implements spec §4.4/§6's
// getPriorityDependencyList.
func (s *State) GetPriorityDependencyList() []int32 {
	s.deps.Lock()
	defer s.deps.Unlock()
	return s.deps.GetPriorityDependencyList()
}

// GetLostFileCount and GetUncheckpointedDependencyCount back
// internal/metrics' gauges; cmd/tachyon-master wires them in as
// metrics.Sources callbacks.
func (s *State) GetLostFileCount() int {
	s.deps.Lock()
	defer s.deps.Unlock()
	return s.deps.LostFileCount()
}

func (s *State) GetUncheckpointedDependencyCount() int {
	s.deps.Lock()
	defer s.deps.Unlock()
	return s.deps.UncheckpointedDepCount()
}
