// Package inode models the three-way tagged inode variant of spec §3:
// File, Folder, and RawTable (a specialized Folder). Folder and RawTable
// share the same child-index shape; RawTable adds a fixed set of typed
// columns on top of it.
//
// Inodes here are plain data: unlike the teacher's FUSE inode types (which
// each carry their own sync.Locker, since FUSE dispatches concurrently per
// inode), every mutation here happens while the namespace holds its single
// coarse "ns" lock (spec §5), so no per-inode mutex is needed.
package inode

import "fmt"

// Kind tags which variant an Inode currently holds.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
	KindRawTable
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindFolder:
		return "Folder"
	case KindRawTable:
		return "RawTable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// RootID is the fixed id of the namespace root, per spec §3.
const RootID int32 = 1

// Location identifies one worker-held in-memory copy of a file.
type Location struct {
	WorkerID int64
	Address  string
}

// FileData holds the mutable state specific to a File inode.
type FileData struct {
	// Length is -1 until the file is first sized by cachedFile/addCheckpoint.
	Length int64
	Ready  bool
	// CheckpointPath is "" if the file has no checkpoint.
	CheckpointPath string
	// DependencyID is -1 if the file is independent of any dependency.
	DependencyID int32
	Pin          bool
	Cache        bool
	Locations    map[Location]struct{}
}

// InMemory is derived, not stored: true iff any location exists.
func (f *FileData) InMemory() bool {
	return len(f.Locations) > 0
}

// FolderData holds the mutable state specific to a Folder inode: the
// name -> child-id index. RawTable embeds this and adds its own fields.
type FolderData struct {
	Children map[string]int32
}

// RawTableData specializes FolderData with typed-column metadata. Per
// spec §3 it is invariant that Children contains exactly Columns entries
// named COL_0 .. COL_{Columns-1}; the namespace package enforces this at
// creation time since it requires allocating the child folder inodes too.
type RawTableData struct {
	FolderData
	Columns  uint32
	Metadata []byte
}

// Inode is the common envelope shared by every variant: identity fields
// that never change after creation, plus exactly one populated payload
// selected by Kind.
type Inode struct {
	// ID is positive while the inode is live; a tombstone record carries
	// its negation (spec §3). The live map in namespace never stores
	// tombstoned ids, so this field is always positive for any Inode an
	// operation can observe.
	ID             int32
	Name           string
	ParentID       int32
	CreationTimeMs int64

	Kind Kind

	File     *FileData
	Folder   *FolderData
	RawTable *RawTableData
}

// NewFile constructs a File inode with pin/cache left at the zero value;
// the namespace sets them from the pin/whitelist after construction.
func NewFile(id, parentID int32, name string, creationTimeMs int64) *Inode {
	return &Inode{
		ID:             id,
		Name:           name,
		ParentID:       parentID,
		CreationTimeMs: creationTimeMs,
		Kind:           KindFile,
		File: &FileData{
			Length:       -1,
			DependencyID: -1,
			Locations:    make(map[Location]struct{}),
		},
	}
}

// NewFolder constructs a plain Folder inode with no children.
func NewFolder(id, parentID int32, name string, creationTimeMs int64) *Inode {
	return &Inode{
		ID:             id,
		Name:           name,
		ParentID:       parentID,
		CreationTimeMs: creationTimeMs,
		Kind:           KindFolder,
		Folder:         &FolderData{Children: make(map[string]int32)},
	}
}

// NewRawTable constructs a RawTable inode. The caller is responsible for
// populating Children with the COL_0..COL_{columns-1} folder ids, per the
// invariant in spec §3.
func NewRawTable(id, parentID int32, name string, creationTimeMs int64, columns uint32, metadata []byte) *Inode {
	return &Inode{
		ID:             id,
		Name:           name,
		ParentID:       parentID,
		CreationTimeMs: creationTimeMs,
		Kind:           KindRawTable,
		RawTable: &RawTableData{
			FolderData: FolderData{Children: make(map[string]int32)},
			Columns:    columns,
			Metadata:   metadata,
		},
	}
}

// Children returns the name->id child index for Folder and RawTable
// inodes, or nil for a File.
func (n *Inode) Children() map[string]int32 {
	switch n.Kind {
	case KindFolder:
		return n.Folder.Children
	case KindRawTable:
		return n.RawTable.Children
	default:
		return nil
	}
}

// IsDirectory reports whether this inode can have children (Folder or
// RawTable).
func (n *Inode) IsDirectory() bool {
	return n.Kind == KindFolder || n.Kind == KindRawTable
}

// CheckInvariants panics if this inode's local (non-tree) invariants are
// violated. It does not check tree-wide invariants (uniqueness, parent
// linkage) — those live in the namespace package, which owns the id map.
func (n *Inode) CheckInvariants() {
	if n.ID <= 0 {
		panic(fmt.Sprintf("inode has non-positive id: %d", n.ID))
	}
	if n.ID != RootID && n.Name == "" {
		panic(fmt.Sprintf("non-root inode %d has empty name", n.ID))
	}

	switch n.Kind {
	case KindFile:
		f := n.File
		if f.CheckpointPath != "" && !f.Ready {
			panic(fmt.Sprintf("file %d has a checkpoint but is not ready", n.ID))
		}
	case KindRawTable:
		rt := n.RawTable
		if int(rt.Columns) != len(rt.Children) {
			panic(fmt.Sprintf("raw table %d has %d columns but %d children", n.ID, rt.Columns, len(rt.Children)))
		}
	}
}

// ColumnName returns the canonical child-folder name for column index i,
// e.g. "COL_0".
func ColumnName(i uint32) string {
	return fmt.Sprintf("COL_%d", i)
}
