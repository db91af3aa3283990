package inode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFile_DefaultsLengthAndDependencyToMinusOne(t *testing.T) {
	f := NewFile(5, 1, "foo", 100)

	assert.Equal(t, int64(-1), f.File.Length)
	assert.Equal(t, int32(-1), f.File.DependencyID)
	assert.False(t, f.File.Ready)
	assert.False(t, f.File.InMemory())
}

func TestFileData_InMemory_TracksLocations(t *testing.T) {
	f := NewFile(5, 1, "foo", 100)

	assert.False(t, f.File.InMemory())

	f.File.Locations[Location{WorkerID: 1, Address: "10.0.0.1:9000"}] = struct{}{}

	assert.True(t, f.File.InMemory())
}

func TestNewRawTable_ChildrenPopulatedByCaller(t *testing.T) {
	rt := NewRawTable(10, 1, "t", 100, 3, []byte("meta"))

	for i := uint32(0); i < 3; i++ {
		rt.RawTable.Children[ColumnName(i)] = int32(11 + i)
	}

	assert.Equal(t, []byte("meta"), rt.RawTable.Metadata)
	assert.Equal(t, map[string]int32{"COL_0": 11, "COL_1": 12, "COL_2": 13}, rt.Children())
	assert.NotPanics(t, rt.CheckInvariants)
}

func TestCheckInvariants_PanicsOnCheckpointWithoutReady(t *testing.T) {
	f := NewFile(5, 1, "foo", 100)
	f.File.CheckpointPath = "hdfs://x"

	assert.Panics(t, f.CheckInvariants)
}

func TestCheckInvariants_PanicsOnRawTableColumnMismatch(t *testing.T) {
	rt := NewRawTable(10, 1, "t", 100, 2, nil)
	rt.RawTable.Children["COL_0"] = 11

	assert.Panics(t, rt.CheckInvariants)
}

func TestIsDirectory(t *testing.T) {
	assert.False(t, NewFile(1, 1, "f", 0).IsDirectory())
	assert.True(t, NewFolder(1, 1, "d", 0).IsDirectory())
	assert.True(t, NewRawTable(1, 1, "t", 0, 1, nil).IsDirectory())
}
