package journal

import (
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/lineage"
)

// FromInode projects n into a Record ready to append.
func FromInode(n *inode.Inode) *Record {
	ir := &InodeRecord{
		ID:             n.ID,
		ParentID:       n.ParentID,
		Name:           n.Name,
		CreationTimeMs: n.CreationTimeMs,
	}
	rec := &Record{Inode: ir}
	switch n.Kind {
	case inode.KindFile:
		rec.Kind = KindInodeFile
		ir.Length = n.File.Length
		ir.Ready = n.File.Ready
		ir.CheckpointPath = n.File.CheckpointPath
		ir.DependencyID = n.File.DependencyID
		ir.Pin = n.File.Pin
		ir.Cache = n.File.Cache
	case inode.KindFolder:
		rec.Kind = KindInodeFolder
		ir.Children = copyChildren(n.Folder.Children)
	case inode.KindRawTable:
		rec.Kind = KindInodeRawTable
		ir.Children = copyChildren(n.RawTable.Children)
		ir.Columns = n.RawTable.Columns
		ir.Metadata = append([]byte(nil), n.RawTable.Metadata...)
	}
	return rec
}

// TombstoneInode builds the tombstone record for a deleted inode: the
// negated id, carrying no other live state, matching spec §3's "a
// tombstone record carries the negation."
func TombstoneInode(kind inode.Kind, id, parentID int32) *Record {
	k := KindInodeFile
	switch kind {
	case inode.KindFolder:
		k = KindInodeFolder
	case inode.KindRawTable:
		k = KindInodeRawTable
	}
	return &Record{
		Kind: k,
		Inode: &InodeRecord{
			ID:       -id,
			ParentID: parentID,
		},
	}
}

func copyChildren(m map[string]int32) map[string]int32 {
	out := make(map[string]int32, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ToInode reconstructs an *inode.Inode from a replayed InodeRecord and
// kind. The caller is responsible for distinguishing tombstones (ID < 0)
// before calling this.
func ToInode(kind Kind, ir *InodeRecord) *inode.Inode {
	n := &inode.Inode{
		ID:             ir.ID,
		ParentID:       ir.ParentID,
		Name:           ir.Name,
		CreationTimeMs: ir.CreationTimeMs,
	}
	switch kind {
	case KindInodeFile:
		n.Kind = inode.KindFile
		n.File = &inode.FileData{
			Length:         ir.Length,
			Ready:          ir.Ready,
			CheckpointPath: ir.CheckpointPath,
			DependencyID:   ir.DependencyID,
			Pin:            ir.Pin,
			Cache:          ir.Cache,
			Locations:      make(map[inode.Location]struct{}),
		}
	case KindInodeFolder:
		n.Kind = inode.KindFolder
		n.Folder = &inode.FolderData{Children: copyChildren(ir.Children)}
	case KindInodeRawTable:
		n.Kind = inode.KindRawTable
		n.RawTable = &inode.RawTableData{
			FolderData: inode.FolderData{Children: copyChildren(ir.Children)},
			Columns:    ir.Columns,
			Metadata:   append([]byte(nil), ir.Metadata...),
		}
	}
	return n
}

// FromDependency projects d into a Record ready to append.
func FromDependency(d *lineage.Dependency) *Record {
	return &Record{
		Kind: KindDependency,
		Dependency: &DependencyRecord{
			ID:                 d.ID,
			ParentFiles:        append([]int32(nil), d.ParentFiles...),
			ChildFiles:         append([]int32(nil), d.ChildFiles...),
			Command:            d.Command,
			Data:               d.Data,
			Comment:            d.Comment,
			Framework:          d.Framework,
			FrameworkVersion:   d.FrameworkVersion,
			Type:               int32(d.Type),
			CreationTimeMs:     d.CreationTimeMs,
			ParentDependencies: setToSlice(d.ParentDependencies),
			ChildDependencies:  setToSlice(d.ChildDependencies),
			UnfinishedChildren: setToSlice(d.UnfinishedChildren),
			LostFiles:          setToSlice(d.LostFiles),
		},
	}
}

// ToDependency reconstructs a *lineage.Dependency from a replayed
// DependencyRecord.
func ToDependency(dr *DependencyRecord) *lineage.Dependency {
	return &lineage.Dependency{
		ID:                 dr.ID,
		ParentFiles:        append([]int32(nil), dr.ParentFiles...),
		ChildFiles:         append([]int32(nil), dr.ChildFiles...),
		Command:            dr.Command,
		Data:               dr.Data,
		Comment:            dr.Comment,
		Framework:          dr.Framework,
		FrameworkVersion:   dr.FrameworkVersion,
		Type:               lineage.DependencyType(dr.Type),
		CreationTimeMs:     dr.CreationTimeMs,
		ParentDependencies: sliceToSet(dr.ParentDependencies),
		ChildDependencies:  sliceToSet(dr.ChildDependencies),
		UnfinishedChildren: sliceToSet(dr.UnfinishedChildren),
		LostFiles:          sliceToSet(dr.LostFiles),
	}
}

func setToSlice(m map[int32]struct{}) []int32 {
	out := make([]int32, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}

func sliceToSet(s []int32) map[int32]struct{} {
	out := make(map[int32]struct{}, len(s))
	for _, id := range s {
		out[id] = struct{}{}
	}
	return out
}
