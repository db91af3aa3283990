package namespace

import (
	"github.com/google/uuid"

	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/journal"
)

func (ns *Namespace) journalAppend(rec *journal.Record) {
	if ns.journal == nil || ns.journalErr != nil {
		return
	}
	// The first append failure is kept in journalErr: later appends and
	// transaction markers are skipped, and the operation returns that
	// error to its caller.
	ns.journalErr = ns.journal.Append(rec)
}

// beginTxn brackets a multi-record operation with a TxnBegin marker, per
// spec §9's atomicity resolution. ok is false when there is no journal
// attached (tests, or recovery replay) or the begin itself failed.
func (ns *Namespace) beginTxn() (id uuid.UUID, ok bool) {
	if ns.journal == nil || ns.journalErr != nil {
		return uuid.UUID{}, false
	}
	id, err := ns.journal.BeginTxn()
	if err != nil {
		ns.journalErr = err
		return uuid.UUID{}, false
	}
	return id, true
}

func (ns *Namespace) commitTxn(id uuid.UUID, ok bool) {
	if !ok || ns.journalErr != nil {
		return
	}
	if err := ns.journal.CommitTxn(id); err != nil {
		ns.journalErr = err
	}
}

// applyPinAndWhitelist sets pin/cache on a newly created file per its
// absolute path, per spec §4.1.
func (ns *Namespace) applyPinAndWhitelist(n *inode.Inode, path string) {
	if ns.pinlist.Covers(path) {
		n.File.Pin = true
	}
	if ns.whitelist.Covers(path) {
		n.File.Cache = true
	}
}

// Create implements spec §4.1's create(path, directory, recursive,
// columns, metadata). columns < 0 means "not a raw table". Requires the
// lock held.
func (ns *Namespace) Create(path string, directory, recursive bool, columns int32, metadata []byte, nowMs int64) (int32, error) {
	parts, err := splitPath(path)
	if err != nil {
		return 0, err
	}
	if len(parts) == 0 {
		return 0, errs.ErrInvalidPath
	}

	if existing, err := ns.resolveParts(parts); err != nil {
		return 0, err
	} else if existing != nil {
		return 0, errs.ErrFileAlreadyExists
	}

	leaf := parts[len(parts)-1]
	parentParts := parts[:len(parts)-1]

	parent, err := ns.resolveParts(parentParts)
	if err != nil {
		return 0, err
	}
	if parent == nil {
		if !recursive {
			return 0, errs.ErrInvalidPath
		}
		parent, err = ns.ensureFolders(parentParts, nowMs)
		if err != nil {
			return 0, err
		}
	} else if !parent.IsDirectory() {
		return 0, errs.ErrInvalidPath
	}

	id := ns.allocID()
	var n *inode.Inode
	switch {
	case columns >= 0:
		n = inode.NewRawTable(id, parent.ID, leaf, nowMs, uint32(columns), metadata)
	case directory:
		n = inode.NewFolder(id, parent.ID, leaf, nowMs)
	default:
		n = inode.NewFile(id, parent.ID, leaf, nowMs)
		ns.applyPinAndWhitelist(n, path)
	}

	ns.install(n)
	parent.Children()[leaf] = id

	ns.journalErr = nil
	txn, ok := ns.beginTxn()
	ns.journalAppend(journal.FromInode(parent))
	ns.journalAppend(journal.FromInode(n))
	ns.commitTxn(txn, ok)
	if ns.journalErr != nil {
		return 0, ns.journalErr
	}
	return id, nil
}

// ensureFolders walks parentParts from root, creating any missing
// component as a plain folder, and returns the final folder. Requires the
// lock held.
func (ns *Namespace) ensureFolders(parentParts []string, nowMs int64) (*inode.Inode, error) {
	cur := ns.inodes[inode.RootID]
	for _, name := range parentParts {
		if !cur.IsDirectory() {
			return nil, errs.ErrInvalidPath
		}
		if childID, ok := cur.Children()[name]; ok {
			cur = ns.inodes[childID]
			continue
		}
		id := ns.allocID()
		folder := inode.NewFolder(id, cur.ID, name, nowMs)
		ns.install(folder)
		cur.Children()[name] = id

		ns.journalErr = nil
		txn, ok := ns.beginTxn()
		ns.journalAppend(journal.FromInode(cur))
		ns.journalAppend(journal.FromInode(folder))
		ns.commitTxn(txn, ok)
		if ns.journalErr != nil {
			return nil, ns.journalErr
		}
		cur = folder
	}
	return cur, nil
}

// CreateRawTable implements spec §4.1's createRawTable: validates
// 0 < columns < maxColumns, creates the RawTable folder, then creates
// `columns` child folders named COL_0..COL_{columns-1}. Requires the
// lock held.
func (ns *Namespace) CreateRawTable(path string, columns uint32, metadata []byte, maxColumns uint32, nowMs int64) (int32, error) {
	if columns == 0 || columns >= maxColumns {
		return 0, errs.ErrTableColumn
	}
	id, err := ns.Create(path, true, true, int32(columns), metadata, nowMs)
	if err != nil {
		return 0, err
	}
	table := ns.inodes[id]
	for i := uint32(0); i < columns; i++ {
		colID, err := ns.Create(path+"/"+inode.ColumnName(i), true, false, -1, nil, nowMs)
		if err != nil {
			return 0, err
		}
		table.Children()[inode.ColumnName(i)] = colID
	}
	return id, nil
}

// Delete implements spec §4.1's delete(id): recursively deletes children
// first, tombstones the inode, removes it from its parent's children and
// the pin list. Missing ids are a no-op. Requires the lock held.
func (ns *Namespace) Delete(id int32, nowMs int64) error {
	n := ns.inodes[id]
	if n == nil {
		return nil
	}

	ns.journalErr = nil
	txn, ok := ns.beginTxn()
	ns.deleteRecursive(n)
	if parent := ns.inodes[n.ParentID]; parent != nil {
		delete(parent.Children(), n.Name)
		ns.journalAppend(journal.FromInode(parent))
	}
	ns.commitTxn(txn, ok)
	return ns.journalErr
}

func (ns *Namespace) deleteRecursive(n *inode.Inode) {
	if n.IsDirectory() {
		for _, childID := range n.Children() {
			if child := ns.inodes[childID]; child != nil {
				ns.deleteRecursive(child)
			}
		}
	}
	ns.journalAppend(journal.TombstoneInode(n.Kind, n.ID, n.ParentID))
	ns.Remove(n.ID)
}

// DeleteByPath resolves path and deletes it, failing FileDoesNotExist if
// it is absent. Requires the lock held.
func (ns *Namespace) DeleteByPath(path string, nowMs int64) error {
	n, err := ns.Resolve(path)
	if err != nil {
		return err
	}
	if n == nil {
		return errs.ErrFileDoesNotExist
	}
	return ns.Delete(n.ID, nowMs)
}

// Rename implements spec §4.1's single-entity rename. Requires the lock
// held.
func (ns *Namespace) Rename(src, dst string) error {
	srcParts, err := splitPath(src)
	if err != nil {
		return err
	}
	if len(srcParts) == 0 {
		return errs.ErrInvalidPath
	}
	n, err := ns.resolveParts(srcParts)
	if err != nil {
		return err
	}
	if n == nil {
		return errs.ErrFileDoesNotExist
	}

	dstParts, err := splitPath(dst)
	if err != nil {
		return err
	}
	if len(dstParts) == 0 {
		return errs.ErrInvalidPath
	}
	if existing, err := ns.resolveParts(dstParts); err != nil {
		return err
	} else if existing != nil {
		return errs.ErrFileAlreadyExists
	}

	dstLeaf := dstParts[len(dstParts)-1]
	dstParentParts := dstParts[:len(dstParts)-1]
	dstParent, err := ns.resolveParts(dstParentParts)
	if err != nil {
		return err
	}
	if dstParent == nil {
		return errs.ErrFileDoesNotExist
	}
	if !dstParent.IsDirectory() {
		return errs.ErrInvalidPath
	}

	oldParent := ns.inodes[n.ParentID]

	ns.journalErr = nil
	txn, ok := ns.beginTxn()
	if oldParent != nil {
		delete(oldParent.Children(), n.Name)
		ns.journalAppend(journal.FromInode(oldParent))
	}
	n.Name = dstLeaf
	n.ParentID = dstParent.ID
	dstParent.Children()[dstLeaf] = n.ID
	if oldParent != dstParent {
		ns.journalAppend(journal.FromInode(dstParent))
	}
	ns.journalAppend(journal.FromInode(n))
	ns.commitTxn(txn, ok)
	return ns.journalErr
}
