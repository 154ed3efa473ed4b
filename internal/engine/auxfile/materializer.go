// Package auxfile materializes the auxiliary files an invocation needs on
// disk before its command runs.
package auxfile

import (
	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
)

// Materializer writes auxiliary files through the filesystem capability.
type Materializer struct {
	fs ports.Filesystem
}

// NewMaterializer creates a Materializer.
func NewMaterializer(filesystem ports.Filesystem) *Materializer {
	return &Materializer{fs: filesystem}
}

// MaterializeAll writes every auxiliary file of an invocation. All files
// must exist before the invocation's command is dispatched; the first
// failure aborts and fails the invocation.
func (m *Materializer) MaterializeAll(files []domain.AuxiliaryFile) error {
	for _, file := range files {
		if err := m.Materialize(file); err != nil {
			return err
		}
	}
	return nil
}

// Materialize resolves the file's chunks in order, concatenates them, and
// writes the result atomically so a crash never leaves a partial file at
// the final path. The executable bit is applied as part of the write.
func (m *Materializer) Materialize(file domain.AuxiliaryFile) error {
	var content []byte
	for _, chunk := range file.Chunks {
		switch chunk.Kind {
		case domain.ChunkData:
			content = append(content, chunk.Data...)
		case domain.ChunkFile:
			data, err := m.fs.ReadFile(chunk.File)
			if err != nil {
				return zerr.With(zerr.With(zerr.Wrap(domain.ErrAuxiliaryFile, "unreadable chunk file"),
					"path", file.Path), "chunk", chunk.File)
			}
			content = append(content, data...)
		}
	}

	if err := m.fs.WriteFileAtomic(file.Path, content, file.Executable); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrAuxiliaryFile, err.Error()), "path", file.Path)
	}
	return nil
}
