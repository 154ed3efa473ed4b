package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-build/anvil/internal/core/domain"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	record, err := s.Get("unknown")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	want := domain.InvocationRecord{
		Identity:         "a.o",
		DescriptionHash:  "deadbeefdeadbeef",
		DiscoveredInputs: []string{"a.c", "a.h"},
		Timestamp:        time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Put(want))

	got, err := s.Get("a.o")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(domain.InvocationRecord{Identity: "a.o", DescriptionHash: "1111"}))
	require.NoError(t, s.Put(domain.InvocationRecord{Identity: "b.o", DescriptionHash: "2222"}))

	// A fresh instance sees what the previous one flushed.
	reopened, err := NewStore(path)
	require.NoError(t, err)

	got, err := reopened.Get("b.o")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2222", got.DescriptionHash)
}

func TestStore_PutOverwrites(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	require.NoError(t, s.Put(domain.InvocationRecord{Identity: "a.o", DescriptionHash: "old"}))
	require.NoError(t, s.Put(domain.InvocationRecord{Identity: "a.o", DescriptionHash: "new"}))

	got, err := s.Get("a.o")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.DescriptionHash)
}

func TestStore_EmptyFileTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	s, err := NewStore(path)
	require.NoError(t, err)

	record, err := s.Get("anything")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestStore_CorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path)
	assert.Error(t, err)
}
