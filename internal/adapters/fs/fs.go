// Package fs provides the OS filesystem adapter.
package fs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.Filesystem = (*OS)(nil)

// OS implements ports.Filesystem on the real filesystem.
type OS struct{}

// New creates a new OS filesystem adapter.
func New() *OS {
	return &OS{}
}

// Stat returns file metadata for the given path.
func (o *OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile returns the full content of the file at path.
func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // Path is controlled by caller
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place. Rename is atomic within a filesystem, so a concurrent
// reader observes either the old file or the complete new one, never a
// partial write.
func (o *OS) WriteFileAtomic(path string, data []byte, executable bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create temporary file"), "path", path)
	}
	tmpName := tmp.Name()
	defer func() {
		// Best effort cleanup if the rename never happened.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to write temporary file"), "path", path)
	}

	mode := os.FileMode(0o644)
	if executable {
		mode = 0o755
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", path)
	}

	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close temporary file"), "path", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to rename into place"), "path", path)
	}
	return nil
}

// MkdirAll creates the directory at path along with any missing parents.
func (o *OS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Symlink creates a symbolic link at path pointing at target.
func (o *OS) Symlink(target, path string) error {
	if err := os.Symlink(target, path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", path)
	}
	return nil
}

// Readlink returns the target of the symbolic link at path.
func (o *OS) Readlink(path string) (string, error) {
	target, err := os.Readlink(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
	}
	return target, nil
}

// ReadDir enumerates the entries of the directory at path.
func (o *OS) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read directory"), "path", path)
	}
	return entries, nil
}

// CopyFile copies a regular file preserving its permission bits.
func (o *OS) CopyFile(source, destination string) error {
	src, err := os.Open(source) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", source)
	}
	defer src.Close() //nolint:errcheck // Read-only close in defer

	info, err := src.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source"), "path", source)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read source"), "path", source)
	}

	return o.WriteFileAtomic(destination, data, info.Mode()&0o111 != 0)
}
