package namespace

import (
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
)

// FileInfo is the client-facing projection of a File inode (spec §6's
// ClientFileInfo).
type FileInfo struct {
	ID             int32
	Path           string
	Length         int64
	Ready          bool
	InMemory       bool
	CheckpointPath string
	DependencyID   int32
	Pin            bool
	Cache          bool
	CreationTimeMs int64
}

// RawTableInfo is the client-facing projection of a RawTable inode (spec
// §6's ClientRawTableInfo).
type RawTableInfo struct {
	ID             int32
	Path           string
	Columns        uint32
	Metadata       []byte
	CreationTimeMs int64
}

// GetFileInfo resolves id and returns its client projection. Requires the
// lock held.
func (ns *Namespace) GetFileInfo(id int32) (FileInfo, error) {
	n := ns.inodes[id]
	if n == nil || n.Kind != inode.KindFile {
		return FileInfo{}, errs.ErrFileDoesNotExist
	}
	return ns.fileInfo(n), nil
}

// GetFileInfoByPath resolves path and returns its client projection.
// Requires the lock held.
func (ns *Namespace) GetFileInfoByPath(path string) (FileInfo, error) {
	n, err := ns.Resolve(path)
	if err != nil {
		return FileInfo{}, err
	}
	if n == nil || n.Kind != inode.KindFile {
		return FileInfo{}, errs.ErrFileDoesNotExist
	}
	return ns.fileInfo(n), nil
}

func (ns *Namespace) fileInfo(n *inode.Inode) FileInfo {
	return FileInfo{
		ID:             n.ID,
		Path:           ns.Path(n),
		Length:         n.File.Length,
		Ready:          n.File.Ready,
		InMemory:       n.File.InMemory(),
		CheckpointPath: n.File.CheckpointPath,
		DependencyID:   n.File.DependencyID,
		Pin:            n.File.Pin,
		Cache:          n.File.Cache,
		CreationTimeMs: n.CreationTimeMs,
	}
}

// GetRawTableInfo resolves id and returns its client projection. Requires
// the lock held.
func (ns *Namespace) GetRawTableInfo(id int32) (RawTableInfo, error) {
	n := ns.inodes[id]
	if n == nil || n.Kind != inode.KindRawTable {
		return RawTableInfo{}, errs.ErrTableDoesNotExist
	}
	return ns.rawTableInfo(n), nil
}

// GetRawTableInfoByPath resolves path and returns its client projection.
// Requires the lock held.
func (ns *Namespace) GetRawTableInfoByPath(path string) (RawTableInfo, error) {
	n, err := ns.Resolve(path)
	if err != nil {
		return RawTableInfo{}, err
	}
	if n == nil || n.Kind != inode.KindRawTable {
		return RawTableInfo{}, errs.ErrTableDoesNotExist
	}
	return ns.rawTableInfo(n), nil
}

func (ns *Namespace) rawTableInfo(n *inode.Inode) RawTableInfo {
	return RawTableInfo{
		ID:             n.ID,
		Path:           ns.Path(n),
		Columns:        n.RawTable.Columns,
		Metadata:       n.RawTable.Metadata,
		CreationTimeMs: n.CreationTimeMs,
	}
}

// GetFileLocations returns the file's current locations (possibly empty).
// Requires the lock held.
func (ns *Namespace) GetFileLocations(id int32) ([]inode.Location, error) {
	n := ns.inodes[id]
	if n == nil || n.Kind != inode.KindFile {
		return nil, errs.ErrFileDoesNotExist
	}
	out := make([]inode.Location, 0, len(n.File.Locations))
	for loc := range n.File.Locations {
		out = append(out, loc)
	}
	return out, nil
}

// ListFiles returns the file-ids under path (or the id itself, if path is
// a file), per spec §4.1. Traversal is breadth-first; child order within
// a folder is unspecified. Requires the lock held.
func (ns *Namespace) ListFiles(path string, recursive bool) ([]int32, error) {
	n, err := ns.Resolve(path)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errs.ErrFileDoesNotExist
	}
	if n.Kind == inode.KindFile {
		return []int32{n.ID}, nil
	}

	var out []int32
	queue := []int32{n.ID}
	for len(queue) > 0 {
		cur := ns.inodes[queue[0]]
		queue = queue[1:]
		for _, childID := range cur.Children() {
			child := ns.inodes[childID]
			if child == nil {
				continue
			}
			if child.Kind == inode.KindFile {
				out = append(out, child.ID)
			} else if recursive {
				queue = append(queue, child.ID)
			}
		}
	}
	return out, nil
}

// Ls returns the absolute paths of path's children, folders and raw tables
// included (or path itself, if it is a file); with recursive it descends
// breadth-first into every folder and raw table. Child order within a
// folder is unspecified. Requires the lock held.
func (ns *Namespace) Ls(path string, recursive bool) ([]string, error) {
	n, err := ns.Resolve(path)
	if err == nil && n == nil {
		err = errs.ErrFileDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	if n.Kind == inode.KindFile {
		return []string{ns.Path(n)}, nil
	}
	var out []string
	for queue := []int32{n.ID}; len(queue) > 0; queue = queue[1:] {
		for _, childID := range ns.inodes[queue[0]].Children() {
			child := ns.inodes[childID]
			out = append(out, ns.Path(child))
			if recursive && child.IsDirectory() {
				queue = append(queue, child.ID)
			}
		}
	}
	return out, nil
}

// GetInMemoryFiles does a breadth-first traversal from root collecting
// absolute paths of File inodes currently in memory. Requires the lock
// held.
func (ns *Namespace) GetInMemoryFiles() []string {
	var out []string
	queue := []int32{inode.RootID}
	for len(queue) > 0 {
		cur := ns.inodes[queue[0]]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		for _, childID := range cur.Children() {
			child := ns.inodes[childID]
			if child == nil {
				continue
			}
			if child.Kind == inode.KindFile {
				if child.File.InMemory() {
					out = append(out, ns.Path(child))
				}
			} else {
				queue = append(queue, child.ID)
			}
		}
	}
	return out
}

// AllInodesBFS returns every live inode in breadth-first order from root,
// used when writing a checkpoint (spec §4.2). Requires the lock held.
func (ns *Namespace) AllInodesBFS() []*inode.Inode {
	out := []*inode.Inode{ns.inodes[inode.RootID]}
	queue := []int32{inode.RootID}
	for len(queue) > 0 {
		cur := ns.inodes[queue[0]]
		queue = queue[1:]
		if cur == nil {
			continue
		}
		for _, childID := range cur.Children() {
			child := ns.inodes[childID]
			if child == nil {
				continue
			}
			out = append(out, child)
			if child.IsDirectory() {
				queue = append(queue, child.ID)
			}
		}
	}
	return out
}
