package resource

import (
	"bytes"
	"io"
	"sync"
	"testing/fstest"
)

// MemoryStore is a thread-safe in-memory WritableStore.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Exists implements Store.
func (s *MemoryStore) Exists(folder, name string) (bool, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[p]
	return ok, nil
}

// Open implements Store. The returned reader is a snapshot.
func (s *MemoryStore) Open(folder, name string) (io.ReadCloser, bool, error) {
	p, err := cleanPath(folder, name)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	data, ok := s.files[p]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return io.NopCloser(bytes.NewReader(data)), true, nil
}

// Save implements WritableStore. Content is read before the lock is taken.
func (s *MemoryStore) Save(folder, name string, content io.Reader) error {
	p, err := cleanPath(folder, name)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = data
	return nil
}

// Delete removes folder/name. Returns true if it existed.
func (s *MemoryStore) Delete(folder, name string) bool {
	p, err := cleanPath(folder, name)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[p]; !ok {
		return false
	}
	delete(s.files, p)
	return true
}

// Len returns the number of stored files.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// List implements Lister.
func (s *MemoryStore) List(pattern string) ([]string, error) {
	s.mu.RLock()
	fsys := make(fstest.MapFS, len(s.files))
	for p, data := range s.files {
		fsys[p] = &fstest.MapFile{Data: data}
	}
	s.mu.RUnlock()
	return list(fsys, pattern)
}
