package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SunnySoftwareTech/Drafty/store"
)

// MemBlobStore is a process-local BlobStore. Nothing survives a restart.
type MemBlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func New() *MemBlobStore {
	return &MemBlobStore{blobs: make(map[string][]byte)}
}

func (m *MemBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemBlobStore) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[key] = slices.Clone(value)
	return nil
}

func (m *MemBlobStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}

func (m *MemBlobStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k, v := range blobs {
		m.blobs[k] = slices.Clone(v)
	}
	return nil
}

// Keys lists the stored keys in sorted order.
func (m *MemBlobStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.blobs))
}

func (m *MemBlobStore) Close() error {
	return nil
}
