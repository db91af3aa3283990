// Package errs defines the caller-facing error kinds surfaced by the
// master's operations (spec §7). Callers match against these with
// errors.Is; the master never retries them internally.
package errs

import "errors"

var (
	// ErrInvalidPath is returned for malformed paths, paths that traverse
	// through a file, or missing intermediate directories when recursive
	// creation was not requested.
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileAlreadyExists is returned when a create or rename target
	// already resolves to an existing inode.
	ErrFileAlreadyExists = errors.New("file already exists")

	// ErrFileDoesNotExist is returned when an operation's subject inode,
	// or a rename destination's parent, cannot be resolved.
	ErrFileDoesNotExist = errors.New("file does not exist")

	// ErrTableColumn is returned when a raw table's column count is
	// outside (0, MAX_COLUMNS).
	ErrTableColumn = errors.New("invalid raw table column count")

	// ErrTableDoesNotExist is returned when a raw-table-only projection is
	// requested against an inode that is not a RawTable.
	ErrTableDoesNotExist = errors.New("raw table does not exist")

	// ErrDependencyDoesNotExist is returned for an unknown dependency id.
	ErrDependencyDoesNotExist = errors.New("dependency does not exist")

	// ErrSuspectedFileSize is returned when a worker reports a length for
	// an already-ready file that disagrees with the recorded length.
	ErrSuspectedFileSize = errors.New("suspected file size mismatch")

	// ErrNoLocalWorker is returned by getWorker when no worker is
	// registered at the requested host.
	ErrNoLocalWorker = errors.New("no worker registered at host")
)
