// Package store implements the incremental-state record store.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/zerr"

	"github.com/anvil-build/anvil/internal/core/domain"
	"github.com/anvil-build/anvil/internal/core/ports"
)

var _ ports.RecordStore = (*Store)(nil)

// Store implements ports.RecordStore using a flat JSON file. Records are
// kept in memory and flushed after every Put, so a build killed mid-run
// keeps the state of everything that completed before it died. The file is
// replaced with an atomic rename; a crash during a flush leaves the
// previous state intact rather than a truncated file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.InvocationRecord
}

// NewStore creates a RecordStore backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.InvocationRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read record store")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal record store")
	}

	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal record store")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for record store")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary record store")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write record store")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close record store")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace record store")
	}

	return nil
}

// Get retrieves the record for a given invocation identity.
func (s *Store) Get(identity string) (*domain.InvocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.cache[identity]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put stores the record and flushes the store to disk.
func (s *Store) Put(record domain.InvocationRecord) error {
	s.mu.Lock()
	s.cache[record.Identity] = record
	s.mu.Unlock()

	return s.save()
}
