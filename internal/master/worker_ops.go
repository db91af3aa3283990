package master

import (
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/worker"
)

// RegisterWorker implements spec §4.3's registerWorker. Step 1 (evicting a
// prior registration at the same address) and step 2-3 (allocating the id,
// installing the Info) happen under the workers lock; step 4 (adding this
// worker's address to each of its current files' locations) happens under
// the ns lock afterward, since workers and ns are never held together
// (spec §5).
func (s *State) RegisterWorker(address string, capacityBytes, usedBytes int64, currentFileIDs []int32) int64 {
	nowMs := clock.NowMs(s.clk)

	s.workers.Lock()
	id, evicted, throttled := s.workers.Register(address, capacityBytes, usedBytes, nowMs)
	s.workers.EnqueueLost(evicted)
	s.workers.Unlock()
	if throttled {
		s.log.Warn("worker registration rate limit exceeded", "address", address, "worker_id", id)
	}

	loc := inode.Location{WorkerID: id, Address: address}
	var validFiles []int32
	s.ns.Lock()
	for _, fid := range currentFileIDs {
		n := s.ns.Get(fid)
		if n == nil || n.Kind != inode.KindFile {
			continue
		}
		_ = s.ns.AddLocation(fid, loc)
		validFiles = append(validFiles, fid)
	}
	s.ns.Unlock()

	if len(validFiles) > 0 {
		s.workers.Lock()
		for _, fid := range validFiles {
			s.workers.AddFile(id, fid)
		}
		s.workers.Unlock()
	}
	return id
}

// WorkerHeartbeat implements spec §4.3's workerHeartbeat.
func (s *State) WorkerHeartbeat(workerID int64, usedBytes int64, removedFileIDs []int32) worker.Command {
	nowMs := clock.NowMs(s.clk)

	s.workers.Lock()
	info := s.workers.Get(workerID)
	if info == nil {
		s.workers.Unlock()
		return worker.CommandRegister
	}
	address := info.Address
	cmd := s.workers.Heartbeat(workerID, usedBytes, removedFileIDs, nowMs)
	s.workers.Unlock()

	if len(removedFileIDs) > 0 {
		loc := inode.Location{WorkerID: workerID, Address: address}
		s.ns.Lock()
		for _, fid := range removedFileIDs {
			s.ns.RemoveLocation(fid, loc)
		}
		s.ns.Unlock()
	}
	return cmd
}

// CachedFile implements spec §4.3's cachedFile.
func (s *State) CachedFile(workerID int64, usedBytes int64, fileID int32, sizeBytes int64) (int32, error) {
	s.workers.Lock()
	info := s.workers.Get(workerID)
	var address string
	if info != nil {
		address = info.Address
		s.workers.UpdateUsage(workerID, usedBytes)
		s.workers.AddFile(workerID, fileID)
	}
	s.workers.Unlock()

	s.ns.Lock()
	n := s.ns.Get(fileID)
	if n == nil || n.Kind != inode.KindFile {
		s.ns.Unlock()
		return 0, errs.ErrFileDoesNotExist
	}
	if err := s.ns.SetFileLength(fileID, sizeBytes); err != nil {
		s.ns.Unlock()
		return 0, err
	}
	if address != "" {
		_ = s.ns.AddLocation(fileID, inode.Location{WorkerID: workerID, Address: address})
	}
	depID := n.File.DependencyID
	checkpointed := n.File.CheckpointPath != ""
	s.ns.Unlock()

	s.deps.Lock()
	s.deps.ClearLost(fileID)
	s.deps.Unlock()

	if checkpointed {
		return -1, nil
	}
	return depID, nil
}

// AddCheckpoint implements spec §4.3's addCheckpoint.
func (s *State) AddCheckpoint(workerID int64, fileID int32, sizeBytes int64, checkpointPath string) (bool, error) {
	s.ns.Lock()
	n := s.ns.Get(fileID)
	if n == nil || n.Kind != inode.KindFile {
		s.ns.Unlock()
		return false, errs.ErrFileDoesNotExist
	}
	if err := s.ns.SetFileLength(fileID, sizeBytes); err != nil {
		s.ns.Unlock()
		return false, err
	}
	if err := s.ns.SetCheckpointPath(fileID, checkpointPath); err != nil {
		s.ns.Unlock()
		return false, err
	}
	depID := n.File.DependencyID
	s.ns.Unlock()

	s.deps.Lock()
	if depID >= 0 {
		s.deps.MarkChildCheckpointed(depID, fileID)
	}
	s.deps.ClearLost(fileID)
	s.deps.Unlock()

	return true, nil
}

// GetWorker implements spec §4.1/§6's getWorker(random, host).
func (s *State) GetWorker(random bool, host string) (*worker.Info, error) {
	s.workers.Lock()
	defer s.workers.Unlock()
	return s.workers.GetWorker(random, host)
}

// GetCapacityBytes implements spec §6's getCapacityBytes.
func (s *State) GetCapacityBytes() int64 {
	s.workers.Lock()
	defer s.workers.Unlock()
	return s.workers.CapacityBytes()
}

// GetUsedBytes implements spec §6's getUsedBytes.
func (s *State) GetUsedBytes() int64 {
	s.workers.Lock()
	defer s.workers.Unlock()
	return s.workers.UsedBytes()
}

// GetWorkerCount implements spec §6's getWorkerCount.
func (s *State) GetWorkerCount() int {
	s.workers.Lock()
	defer s.workers.Unlock()
	return s.workers.Count()
}

// GetWorkersInfo implements spec §6's getWorkersInfo.
func (s *State) GetWorkersInfo() []*worker.Info {
	s.workers.Lock()
	defer s.workers.Unlock()
	return s.workers.All()
}
