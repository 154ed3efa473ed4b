// Package ports defines the core interfaces for the application.
package ports

import (
	"io/fs"
)

//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks

// Filesystem is the capability interface the engine uses to reach the
// disk. Everything the scheduler, staleness detector, and materializer do
// to the filesystem goes through it, so tests can substitute a fake and
// the OS wrapper stays in one adapter.
type Filesystem interface {
	// Stat returns file metadata. The error satisfies fs.ErrNotExist when
	// the path is absent.
	Stat(path string) (fs.FileInfo, error)

	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path by writing a temporary file in
	// the same directory and renaming it into place, so a crash never
	// leaves a partial file visible at the final path. When executable is
	// true the file's executable permission bits are set.
	WriteFileAtomic(path string, data []byte, executable bool) error

	// MkdirAll creates the directory at path along with any missing
	// parents.
	MkdirAll(path string) error

	// Symlink creates a symbolic link at path pointing at target.
	Symlink(target, path string) error

	// Readlink returns the target of the symbolic link at path.
	Readlink(path string) (string, error)

	// ReadDir enumerates the entries of the directory at path.
	ReadDir(path string) ([]fs.DirEntry, error)

	// CopyFile copies a regular file preserving its permission bits.
	CopyFile(source, destination string) error
}
