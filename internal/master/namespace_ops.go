package master

import (
	"github.com/tachyon-project/tachyon-master/internal/clock"
	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/inode"
	"github.com/tachyon-project/tachyon-master/internal/namespace"
)

// CreateFile implements spec §4.1/§6's createFile. columns < 0 means "not
// a raw table" (the RPC table's default).
func (s *State) CreateFile(path string, directory, recursive bool, columns int32, metadata []byte) (int32, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.Create(path, directory, recursive, columns, metadata, clock.NowMs(s.clk))
}

// CreateRawTable implements spec §4.1's createRawTable.
func (s *State) CreateRawTable(path string, columns uint32, metadata []byte) (int32, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.CreateRawTable(path, columns, metadata, s.maxColumns, clock.NowMs(s.clk))
}

// Delete implements spec §4.1's delete(id): idempotent on a missing id.
func (s *State) Delete(id int32) error {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.Delete(id, clock.NowMs(s.clk))
}

// DeleteByPath implements spec §4.1's delete(path).
func (s *State) DeleteByPath(path string) error {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.DeleteByPath(path, clock.NowMs(s.clk))
}

// Rename implements spec §4.1's single-entity rename.
func (s *State) Rename(src, dst string) error {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.Rename(src, dst)
}

// GetFileID implements spec §6's getFileId: -1 (no error) if the path
// simply doesn't resolve; an error only for a malformed path.
func (s *State) GetFileID(path string) (int32, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	n, err := s.ns.Resolve(path)
	if err != nil {
		return -1, err
	}
	if n == nil {
		return -1, nil
	}
	return n.ID, nil
}

// GetFileInfo implements spec §6's getFileInfo(id).
func (s *State) GetFileInfo(id int32) (namespace.FileInfo, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetFileInfo(id)
}

// GetFileInfoByPath implements spec §6's getFileInfo(path).
func (s *State) GetFileInfoByPath(path string) (namespace.FileInfo, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetFileInfoByPath(path)
}

// GetRawTableInfo implements spec §6's getRawTableInfo(id).
func (s *State) GetRawTableInfo(id int32) (namespace.RawTableInfo, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetRawTableInfo(id)
}

// GetRawTableInfoByPath implements spec §6's getRawTableInfo(path).
func (s *State) GetRawTableInfoByPath(path string) (namespace.RawTableInfo, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetRawTableInfoByPath(path)
}

// GetFileLocations implements spec §6's getFileLocations(id).
func (s *State) GetFileLocations(id int32) ([]inode.Location, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetFileLocations(id)
}

// GetFileLocationsByPath resolves path first, then returns its locations.
func (s *State) GetFileLocationsByPath(path string) ([]inode.Location, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	n, err := s.ns.Resolve(path)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errs.ErrFileDoesNotExist
	}
	return s.ns.GetFileLocations(n.ID)
}

// ListFiles implements spec §4.1/§6's listFiles(path, recursive).
func (s *State) ListFiles(path string, recursive bool) ([]int32, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.ListFiles(path, recursive)
}

// Ls implements spec §4.1/§6's ls(path, recursive).
func (s *State) Ls(path string, recursive bool) ([]string, error) {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.Ls(path, recursive)
}

// GetInMemoryFiles implements spec §6's getInMemoryFiles.
func (s *State) GetInMemoryFiles() []string {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetInMemoryFiles()
}

// GetPinList implements spec §6's getPinList.
func (s *State) GetPinList() []string {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetPinList()
}

// GetWhiteList implements spec §6's getWhiteList.
func (s *State) GetWhiteList() []string {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetWhiteList()
}

// GetPinIdList implements spec §6's getPinIdList.
func (s *State) GetPinIdList() []int32 {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.GetPinIdList()
}

// UnpinFile implements spec §6's unpinFile.
func (s *State) UnpinFile(fileID int32) error {
	s.ns.Lock()
	defer s.ns.Unlock()
	return s.ns.UnpinFile(fileID)
}
