package namespace

import (
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/journal"
)

// SetFileLength sets a File's length the first time it is reported
// (length == -1 until then, per spec §3) and marks it ready; on every
// later call it enforces that size matches, failing SuspectedFileSize
// otherwise — the shared check spec §4.3 calls out for both cachedFile
// and addCheckpoint. Requires the lock held.
func (ns *Namespace) SetFileLength(fileID int32, size int64) error {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return errs.ErrFileDoesNotExist
	}
	if n.File.Ready {
		if n.File.Length != size {
			return errs.ErrSuspectedFileSize
		}
		return nil
	}
	n.File.Length = size
	n.File.Ready = true
	ns.journalErr = nil
	ns.journalAppend(journal.FromInode(n))
	return ns.journalErr
}

// SetCheckpointPath records where a file's data was checkpointed to.
// Requires the lock held.
func (ns *Namespace) SetCheckpointPath(fileID int32, path string) error {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return errs.ErrFileDoesNotExist
	}
	n.File.CheckpointPath = path
	ns.journalErr = nil
	ns.journalAppend(journal.FromInode(n))
	return ns.journalErr
}

// AddLocation adds a worker location to a file. Locations are not
// journaled (see internal/journal's InodeRecord doc): they are rebuilt as
// workers re-register after a restart. Requires the lock held.
func (ns *Namespace) AddLocation(fileID int32, loc inode.Location) error {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return errs.ErrFileDoesNotExist
	}
	n.File.Locations[loc] = struct{}{}
	return nil
}

// RemoveLocation drops a worker location from a file, if present.
// Requires the lock held.
func (ns *Namespace) RemoveLocation(fileID int32, loc inode.Location) {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return
	}
	delete(n.File.Locations, loc)
}

// UnpinFile clears a file's pin flag and removes it from id_pin_list.
// Requires the lock held.
func (ns *Namespace) UnpinFile(fileID int32) error {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return errs.ErrFileDoesNotExist
	}
	n.File.Pin = false
	delete(ns.pinList, fileID)
	ns.journalErr = nil
	ns.journalAppend(journal.FromInode(n))
	return ns.journalErr
}

// SetFileDependency sets a File's dependency_id without journaling it
// itself: createDependency (internal/master) updates every child's
// dependency_id and the dependency record as one batched transaction, per
// spec §4.4, so the caller is responsible for journaling the returned
// inode as part of that larger append sequence. Requires the lock held.
func (ns *Namespace) SetFileDependency(fileID, depID int32) (*inode.Inode, error) {
	n := ns.inodes[fileID]
	if n == nil || n.Kind != inode.KindFile {
		return nil, errs.ErrFileDoesNotExist
	}
	n.File.DependencyID = depID
	return n, nil
}

// GetPinList returns the configured pin-list path prefixes. Requires the
// lock held (kept consistent with the rest of the namespace API even
// though the prefix list itself is immutable post-startup).
func (ns *Namespace) GetPinList() []string { return ns.pinlist.Prefixes() }

// GetWhiteList returns the configured whitelist path prefixes.
func (ns *Namespace) GetWhiteList() []string { return ns.whitelist.Prefixes() }

// GetPinIdList returns id_pin_list: the ids of files currently pinned.
// Requires the lock held.
func (ns *Namespace) GetPinIdList() []int32 { return ns.PinList() }
