package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/mira"
)

// Ensure Store implements mira.Store at compile time.
var _ mira.Store = (*Store)(nil)

// Store implements mira.Store as a single JSON file.
//
// The whole mapping is held in memory and rewritten on every mutation.
// Writes go to a temporary file in the same directory which is then renamed
// over the store file, so a crash mid-save never leaves a truncated store.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]string

	// digest of the bytes last read from or written to path.
	digest uint64
	synced bool
}

// NewStore creates a Store backed by the file at path.
// Call Load before use.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		entries: make(map[string]string),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file. A missing file yields an empty store.
// Returns EMALFORMED if the file is not a JSON object of strings; the store
// is left empty in that case.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]string)
	s.synced = false

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	entries, err := DecodeEntries(bytes.NewReader(data))
	if err != nil {
		return mira.Errorf(mira.EMALFORMED, "%s: %s", s.path, mira.ErrorMessage(err))
	}

	s.entries = entries
	s.digest = xxhash.Sum64(data)
	s.synced = true
	return nil
}

// Save writes the full mapping to the backing file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns the answer stored under key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	answer, ok := s.entries[key]
	if !ok {
		return "", mira.Errorf(mira.ENOTFOUND, "question %q not found", key)
	}
	return answer, nil
}

// Put stores answer under key and saves the store. The in-memory change is
// reverted if the save fails.
func (s *Store) Put(_ context.Context, key, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.entries[key]
	s.entries[key] = answer

	if err := s.save(); err != nil {
		if existed {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// Merge overwrites the keys of entries and saves the store once. The
// in-memory changes are reverted if the save fails.
func (s *Store) Merge(_ context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type previous struct {
		value   string
		existed bool
	}
	undo := make(map[string]previous, len(entries))
	for key, answer := range entries {
		value, existed := s.entries[key]
		undo[key] = previous{value: value, existed: existed}
		s.entries[key] = answer
	}

	if err := s.save(); err != nil {
		for key, p := range undo {
			if p.existed {
				s.entries[key] = p.value
			} else {
				delete(s.entries, key)
			}
		}
		return err
	}
	return nil
}

// Keys returns all keys in sorted order.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}

// save must be called with mu held.
func (s *Store) save() error {
	data, err := EncodeEntries(s.entries)
	if err != nil {
		return mira.Errorf(mira.EINTERNAL, "failed to encode store: %v", err)
	}

	// Unchanged content is already durable.
	digest := xxhash.Sum64(data)
	if s.synced && digest == s.digest {
		return nil
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return mira.Errorf(mira.EINTERNAL, "failed to save store: %v", err)
	}

	s.digest = digest
	s.synced = true
	return nil
}

// writeFileAtomic writes data to a temp file next to path, then renames it
// over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
