// Package namespace implements the id-keyed inode graph described in
// spec §3/§4.1: path resolution, the create/delete/rename/list family of
// operations, the pin list, and the whitelist/pin-list-driven defaults
// applied to newly created files.
//
// Namespace owns its own mutex and is the "ns" lock of spec §5: it guards
// the inode map, the root, every folder's children index, id_pin_list,
// and file locations. Every exported method below assumes the caller
// already holds the lock (via Lock/Unlock) unless documented otherwise —
// the same convention the teacher repo uses for its GUARDED_BY(mu)
// methods. internal/master is the only caller that acquires this lock
// directly; it does so before lineage's "deps" lock, per the documented
// ns-before-deps order.
package namespace

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/journal"
	"github.com/tachyon-project/tachyon-master/internal/prefixlist"
)

// Namespace is the in-memory inode graph plus the pin list.
type Namespace struct {
	mu sync.Mutex

	inodes map[int32]*inode.Inode
	nextID int32

	pinList map[int32]struct{}

	whitelist *prefixlist.List
	pinlist   *prefixlist.List

	journal   journalWriter
	journalErr error
}

// journalWriter is the subset of *journal.Writer the namespace needs to
// persist its operations, bracketing multi-record operations (create:
// parent + new inode; delete: tombstone(s) + parent; rename: two parents
// + inode) in a transaction marker per spec §9's atomicity resolution. A
// local interface, rather than a dependency on the concrete type, lets
// tests exercise Namespace with a fake recorder instead of a real file.
type journalWriter interface {
	Append(rec *journal.Record) error
	BeginTxn() (uuid.UUID, error)
	CommitTxn(uuid.UUID) error
}

// New builds a Namespace containing only the root folder (id 1, name "",
// parent -1, per spec §3). jw may be nil, in which case operations are
// not journaled (used by tests and by recovery replay, which journals
// nothing since it's reconstructing state the log already recorded).
func New(whitelist, pinlist *prefixlist.List, jw journalWriter) *Namespace {
	ns := &Namespace{
		inodes:    make(map[int32]*inode.Inode),
		nextID:    inode.RootID + 1,
		pinList:   make(map[int32]struct{}),
		whitelist: whitelist,
		pinlist:   pinlist,
		journal:   jw,
	}
	root := inode.NewFolder(inode.RootID, -1, "", 0)
	ns.inodes[inode.RootID] = root
	return ns
}

// Lock and Unlock implement sync.Locker for the "ns" lock (spec §5).
func (ns *Namespace) Lock()   { ns.mu.Lock() }
func (ns *Namespace) Unlock() { ns.mu.Unlock() }

// SetJournal attaches (or detaches, with nil) the journal writer used for
// future operations. Called after recovery has replayed the prior log
// with journaling disabled, and again whenever a checkpoint opens a fresh
// log writer.
func (ns *Namespace) SetJournal(jw journalWriter) { ns.journal = jw }

// allocID returns the next inode id. Requires the lock held.
func (ns *Namespace) allocID() int32 {
	id := ns.nextID
	ns.nextID++
	return id
}

// BumpCounter raises the inode-id counter to at least id, used during
// journal recovery. Requires the lock held.
func (ns *Namespace) BumpCounter(id int32) {
	if id >= ns.nextID {
		ns.nextID = id + 1
	}
}

// Counter returns the inode-id counter (the next id to be allocated).
// Requires the lock held.
func (ns *Namespace) Counter() int32 { return ns.nextID }

func (ns *Namespace) install(n *inode.Inode) {
	ns.inodes[n.ID] = n
	if n.Kind == inode.KindFile && n.File.Pin {
		ns.pinList[n.ID] = struct{}{}
	}
}

// Install inserts n directly (used by journal recovery replay, which
// already carries fully-formed inodes). Requires the lock held.
func (ns *Namespace) Install(n *inode.Inode) {
	ns.install(n)
}

// Remove tombstones id: removes it from the inode map and the pin list.
// It does not touch any parent's children index — callers update that
// separately, mirroring how delete() and journal replay of a tombstone
// both need the removal without always having the parent at hand.
// Requires the lock held.
func (ns *Namespace) Remove(id int32) {
	delete(ns.inodes, id)
	delete(ns.pinList, id)
}

// Get returns the inode for id, or nil. Requires the lock held.
func (ns *Namespace) Get(id int32) *inode.Inode {
	return ns.inodes[id]
}

// PinList returns a snapshot of id_pin_list. Requires the lock held.
func (ns *Namespace) PinList() []int32 {
	out := make([]int32, 0, len(ns.pinList))
	for id := range ns.pinList {
		out = append(out, id)
	}
	return out
}

// splitPath validates and splits an absolute path into its non-empty
// components; "/" splits to an empty, non-nil-error slice (the root).
func splitPath(path string) ([]string, error) {
	if path == "" || path[0] != '/' {
		return nil, errs.ErrInvalidPath
	}
	if path == "/" {
		return []string{}, nil
	}
	parts := strings.Split(path[1:], "/")
	for _, p := range parts {
		if p == "" {
			return nil, errs.ErrInvalidPath
		}
	}
	return parts, nil
}

func joinPath(parts []string) string {
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// resolveParts walks from root by name, returning (nil, nil) if any
// component is simply absent, and InvalidPath if an intermediate
// component is a file. Requires the lock held.
func (ns *Namespace) resolveParts(parts []string) (*inode.Inode, error) {
	cur := ns.inodes[inode.RootID]
	for _, name := range parts {
		if !cur.IsDirectory() {
			return nil, errs.ErrInvalidPath
		}
		childID, ok := cur.Children()[name]
		if !ok {
			return nil, nil
		}
		cur = ns.inodes[childID]
	}
	return cur, nil
}

// Resolve resolves an absolute path to its inode, or (nil, nil) if it
// does not exist. Requires the lock held.
func (ns *Namespace) Resolve(path string) (*inode.Inode, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return ns.resolveParts(parts)
}

// Path reconstructs the absolute path of a live inode by walking parent
// ids back to the root. Requires the lock held.
func (ns *Namespace) Path(n *inode.Inode) string {
	if n.ID == inode.RootID {
		return "/"
	}
	var parts []string
	for cur := n; cur.ID != inode.RootID; {
		parts = append([]string{cur.Name}, parts...)
		cur = ns.inodes[cur.ParentID]
		if cur == nil {
			break
		}
	}
	return joinPath(parts)
}
