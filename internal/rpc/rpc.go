// Package rpc defines the transport-free client and worker contracts of
// spec §6: plain Go interfaces and request/response structs matching the
// RPC table exactly. Nothing here touches a wire format — §1 and §6 keep
// that deliberately abstract, and internal/master's *State satisfies both
// interfaces directly, the way an in-process caller (a test, or a future
// transport adapter) would invoke them.
package rpc

import (
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
	"github.com/tachyon-project/tachyon-master/internal/worker"
)

// MasterService is every RPC contract consumed by clients, per spec §6's
// table. columns=-1 on CreateFile means "not a raw table", matching the
// table's default.
type MasterService interface {
	CreateFile(path string, directory, recursive bool, columns int32, metadata []byte) (int32, error)
	CreateRawTable(path string, columns uint32, metadata []byte) (int32, error)
	Delete(id int32) error
	DeleteByPath(path string) error
	Rename(src, dst string) error

	GetFileID(path string) (int32, error)
	GetFileInfo(id int32) (namespace.FileInfo, error)
	GetFileInfoByPath(path string) (namespace.FileInfo, error)
	GetRawTableInfo(id int32) (namespace.RawTableInfo, error)
	GetRawTableInfoByPath(path string) (namespace.RawTableInfo, error)
	GetFileLocations(id int32) ([]inode.Location, error)
	GetFileLocationsByPath(path string) ([]inode.Location, error)

	ListFiles(path string, recursive bool) ([]int32, error)
	Ls(path string, recursive bool) ([]string, error)
	GetInMemoryFiles() []string

	GetPinList() []string
	GetWhiteList() []string
	GetPinIdList() []int32
	GetPriorityDependencyList() []int32
	GetNewUserID() int64

	CreateDependency(parentPaths, childPaths []string, commandPrefix string, data [][]byte, comment, framework, frameworkVersion string, depType lineage.DependencyType) (int32, error)
	GetClientDependencyInfo(depID int32) (lineage.ClientDependencyInfo, error)
	ReportLostFile(fileID int32) error
	UnpinFile(fileID int32) error

	GetWorker(random bool, host string) (*worker.Info, error)
	GetCapacityBytes() int64
	GetUsedBytes() int64
	GetWorkerCount() int
	GetStartTimeMs() int64
	GetWorkersInfo() []*worker.Info
}

// WorkerService is the RPC contract consumed by workers, per spec §6.
type WorkerService interface {
	RegisterWorker(address string, capacityBytes, usedBytes int64, currentFileIDs []int32) int64
	WorkerHeartbeat(workerID int64, usedBytes int64, removedFileIDs []int32) worker.Command
	CachedFile(workerID int64, usedBytes int64, fileID int32, sizeBytes int64) (int32, error)
	AddCheckpoint(workerID int64, fileID int32, sizeBytes int64, checkpointPath string) (bool, error)
}
