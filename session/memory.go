package session

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	values map[Key]string
	lock   sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Key]string)}
}

func (m *MemoryStore) Get(_ context.Context, key Key) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.values[key], nil
}

func (m *MemoryStore) Set(_ context.Context, key Key, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, keys ...Key) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
