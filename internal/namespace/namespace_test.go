package namespace

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/journal"
	"github.com/tachyon-project/tachyon-master/internal/prefixlist"
)

type recordingJournal struct {
	records []*journal.Record
	txns    int
}

func (r *recordingJournal) Append(rec *journal.Record) error {
	r.records = append(r.records, rec)
	return nil
}
func (r *recordingJournal) BeginTxn() (uuid.UUID, error) {
	r.txns++
	return uuid.New(), nil
}
func (r *recordingJournal) CommitTxn(uuid.UUID) error { return nil }

func newTestNamespace() (*Namespace, *recordingJournal) {
	rj := &recordingJournal{}
	return New(prefixlist.New(nil), prefixlist.New(nil), rj), rj
}

func TestCreate_RecursiveFolders(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/a/b", false, true, -1, nil, 1000)
	require.NoError(t, err)
	assert.Equal(t, int32(3), id) // root=1, /a=2, /a/b=3

	n, err := ns.Resolve("/a/b")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, id, n.ID)
}

func TestCreate_FailsWithoutRecursiveWhenParentMissing(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	_, err := ns.Create("/a/b", false, false, -1, nil, 0)
	assert.ErrorIs(t, err, errs.ErrInvalidPath)
}

func TestCreate_FailsFileAlreadyExists(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	_, err := ns.Create("/a", false, true, -1, nil, 0)
	require.NoError(t, err)
	_, err = ns.Create("/a", false, true, -1, nil, 0)
	assert.ErrorIs(t, err, errs.ErrFileAlreadyExists)
}

func TestCreate_JournalsParentAndChild(t *testing.T) {
	ns, rj := newTestNamespace()
	ns.Lock()
	_, err := ns.Create("/a", false, true, -1, nil, 0)
	ns.Unlock()
	require.NoError(t, err)

	require.Len(t, rj.records, 2)
	assert.Equal(t, int32(1), rj.records[0].Inode.ID) // root
	assert.Equal(t, int32(2), rj.records[1].Inode.ID) // new file
	assert.Equal(t, 1, rj.txns)
}

func TestCreateRawTable_CreatesColumnChildren(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.CreateRawTable("/t", 3, []byte("m"), 1000, 0)
	require.NoError(t, err)

	paths, err := ns.Ls("/t", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/t/COL_0", "/t/COL_1", "/t/COL_2"}, paths)

	info, err := ns.GetRawTableInfo(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), info.Columns)
	assert.Equal(t, []byte("m"), info.Metadata)
}

func TestCreateRawTable_RejectsBadColumnCount(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	_, err := ns.CreateRawTable("/t", 0, nil, 1000, 0)
	assert.ErrorIs(t, err, errs.ErrTableColumn)

	_, err = ns.CreateRawTable("/t2", 1000, nil, 1000, 0)
	assert.ErrorIs(t, err, errs.ErrTableColumn)
}

func TestDelete_RecursiveAndIdempotent(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/a/b", false, true, -1, nil, 0)
	require.NoError(t, err)

	require.NoError(t, ns.Delete(id, 0))
	n, err := ns.Resolve("/a/b")
	require.NoError(t, err)
	assert.Nil(t, n)

	// Idempotent: deleting again is a no-op, not an error.
	assert.NoError(t, ns.Delete(id, 0))
}

func TestDeleteByPath_FailsFileDoesNotExist(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	err := ns.DeleteByPath("/missing", 0)
	assert.ErrorIs(t, err, errs.ErrFileDoesNotExist)
}

func TestRename_MovesInodeAndUpdatesIndices(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/x/y", false, true, -1, nil, 0)
	require.NoError(t, err)

	require.NoError(t, ns.Rename("/x/y", "/x/z"))

	n, err := ns.Resolve("/x/y")
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = ns.Resolve("/x/z")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, id, n.ID)
}

func TestRename_FailsFileAlreadyExists(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	_, err := ns.Create("/a", false, true, -1, nil, 0)
	require.NoError(t, err)
	_, err = ns.Create("/b", false, true, -1, nil, 0)
	require.NoError(t, err)

	err = ns.Rename("/a", "/b")
	assert.ErrorIs(t, err, errs.ErrFileAlreadyExists)
}

func TestPinAndWhitelist_AppliedAtCreation(t *testing.T) {
	rj := &recordingJournal{}
	ns := New(prefixlist.New([]string{"/cache"}), prefixlist.New([]string{"/pinned"}), rj)
	ns.Lock()
	defer ns.Unlock()

	pinnedID, err := ns.Create("/pinned/f", false, true, -1, nil, 0)
	require.NoError(t, err)
	info, err := ns.GetFileInfo(pinnedID)
	require.NoError(t, err)
	assert.True(t, info.Pin)
	assert.Contains(t, ns.GetPinIdList(), pinnedID)

	cachedID, err := ns.Create("/cache/f", false, true, -1, nil, 0)
	require.NoError(t, err)
	info, err = ns.GetFileInfo(cachedID)
	require.NoError(t, err)
	assert.True(t, info.Cache)
}

func TestSetFileLength_SetsOnceThenEnforces(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/f", false, true, -1, nil, 0)
	require.NoError(t, err)

	require.NoError(t, ns.SetFileLength(id, 42))
	info, err := ns.GetFileInfo(id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), info.Length)
	assert.True(t, info.Ready)

	err = ns.SetFileLength(id, 43)
	assert.ErrorIs(t, err, errs.ErrSuspectedFileSize)
}

func TestUnpinFile_ClearsPinAndIdList(t *testing.T) {
	ns := New(prefixlist.New(nil), prefixlist.New([]string{"/pinned"}), &recordingJournal{})
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/pinned/f", false, true, -1, nil, 0)
	require.NoError(t, err)
	require.Contains(t, ns.GetPinIdList(), id)

	require.NoError(t, ns.UnpinFile(id))
	assert.NotContains(t, ns.GetPinIdList(), id)
}

func TestGetInMemoryFiles_TracksLocations(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	id, err := ns.Create("/f", false, true, -1, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, ns.GetInMemoryFiles())

	require.NoError(t, ns.AddLocation(id, inode.Location{WorkerID: 1, Address: "10.0.0.1:1"}))
	assert.Equal(t, []string{"/f"}, ns.GetInMemoryFiles())

	ns.RemoveLocation(id, inode.Location{WorkerID: 1, Address: "10.0.0.1:1"})
	assert.Empty(t, ns.GetInMemoryFiles())
}

func TestAllInodesBFS_IncludesRoot(t *testing.T) {
	ns, _ := newTestNamespace()
	ns.Lock()
	defer ns.Unlock()

	_, err := ns.Create("/a/b", false, true, -1, nil, 0)
	require.NoError(t, err)

	all := ns.AllInodesBFS()
	require.Len(t, all, 3)
	assert.Equal(t, inode.RootID, all[0].ID)
}
