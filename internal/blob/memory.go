package blob

import (
	"context"
	"io"
	"sync"
)

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) Put(ctx context.Context, r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := NewStorageName(originalName)
	for {
		if _, taken := s.blobs[name]; !taken {
			break
		}
		name = NewStorageName(originalName)
	}
	s.blobs[name] = data
	return name, nil
}

func (s *MemStore) Delete(ctx context.Context, storageName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[storageName]
	delete(s.blobs, storageName)
	return ok, nil
}

func (s *MemStore) Resolve(storageName string) string {
	return PublicPrefix + "/" + storageName
}

// Get returns the stored bytes, for assertions.
func (s *MemStore) Get(storageName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[storageName]
	return b, ok
}

// Len returns the number of stored blobs.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
