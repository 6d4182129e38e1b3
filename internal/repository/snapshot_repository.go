package repository

import (
	"context"
	"sync"
)

// MemorySnapshotRepository keeps snapshots in process memory. It is the default
// backend and the one used by tests.
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemorySnapshotRepository constructs an empty in-memory snapshot repository.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{blobs: make(map[string][]byte)}
}

// Save replaces the blob stored under key.
func (r *MemorySnapshotRepository) Save(_ context.Context, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[key] = append([]byte(nil), payload...)
	return nil
}

// Load returns the blob stored under key.
func (r *MemorySnapshotRepository) Load(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}
