package journal

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
)

// WriteCheckpoint writes a fresh checkpoint to path: inodes (in the order
// given — callers pass a BFS-from-root order per spec §4.2), then every
// dependency, then a CheckpointInfo record, fsynced and atomically renamed
// into place. inodes must already exclude tombstones; a checkpoint only
// ever contains live state.
func WriteCheckpoint(path string, inodes []*inode.Inode, deps []*lineage.Dependency, inodeCounter, depCounter int32) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("journal: create checkpoint tmp %q: %w", tmp, err)
	}

	enc := gob.NewEncoder(f)
	for _, n := range inodes {
		if err := enc.Encode(FromInode(n)); err != nil {
			f.Close()
			return fmt.Errorf("journal: encode checkpoint inode: %w", err)
		}
	}
	for _, d := range deps {
		if err := enc.Encode(FromDependency(d)); err != nil {
			f.Close()
			return fmt.Errorf("journal: encode checkpoint dependency: %w", err)
		}
	}
	info := &Record{Kind: KindCheckpointInfo, CheckpointInfo: &CheckpointInfoRecord{
		InodeCounter:      inodeCounter,
		DependencyCounter: depCounter,
	}}
	if err := enc.Encode(info); err != nil {
		f.Close()
		return fmt.Errorf("journal: encode checkpoint info: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("journal: fsync checkpoint tmp: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("journal: close checkpoint tmp: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("journal: rename checkpoint into place: %w", err)
	}
	// Best effort: fsync the containing directory so the rename itself is
	// durable. Not fatal if the platform doesn't support it.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
