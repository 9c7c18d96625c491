// Package storage persists the serialized application document. The whole
// document lives under a single fixed key; backends only move opaque bytes
// and never interpret them.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by Read when nothing has been stored yet.
var ErrKeyNotFound = errors.New("storage key not found")

// BlobStore reads and writes the serialized document for a storage key.
// Write replaces the stored value unconditionally.
type BlobStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, body []byte) error
	Close() error
}

// MemoryStore keeps blobs in process memory. Used by tests and as the
// throwaway backend.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.blobs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

func (s *MemoryStore) Write(ctx context.Context, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.blobs[key] = stored
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
