package auxfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-build/anvil/internal/adapters/fs"
	"github.com/anvil-build/anvil/internal/core/domain"
)

func TestMaterialize_DataChunk(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(fs.New())

	path := filepath.Join(dir, "gen", "config.h")
	err := m.Materialize(domain.AuxiliaryFileData(path, []byte("#define X 1\n"), false))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#define X 1\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Mode()&0o111, "plain file must not be executable")
}

func TestMaterialize_ConcatenatesChunksInOrder(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(fs.New())

	body := filepath.Join(dir, "body.sh")
	require.NoError(t, os.WriteFile(body, []byte("echo hello\n"), 0o644))

	path := filepath.Join(dir, "script.sh")
	file := domain.AuxiliaryFile{
		Path: path,
		Chunks: []domain.Chunk{
			{Kind: domain.ChunkData, Data: []byte("#!/bin/sh\n")},
			{Kind: domain.ChunkFile, File: body},
			{Kind: domain.ChunkData, Data: []byte("exit 0\n")},
		},
		Executable: true,
	}
	require.NoError(t, m.Materialize(file))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho hello\nexit 0\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "script must carry the executable bit")
}

func TestMaterialize_UnreadableChunkFile(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(fs.New())

	path := filepath.Join(dir, "out.txt")
	err := m.Materialize(domain.AuxiliaryFileFrom(path, filepath.Join(dir, "missing.txt"), false))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuxiliaryFile)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no partial file may appear at the final path")
}

func TestMaterializeAll_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	m := NewMaterializer(fs.New())

	files := []domain.AuxiliaryFile{
		domain.AuxiliaryFileFrom(filepath.Join(dir, "first.txt"), filepath.Join(dir, "missing.txt"), false),
		domain.AuxiliaryFileData(filepath.Join(dir, "second.txt"), []byte("ok"), false),
	}
	err := m.MaterializeAll(files)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "second.txt"))
	assert.True(t, os.IsNotExist(statErr), "later files are not written after a failure")
}
