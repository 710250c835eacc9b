package settings

import "sync"

type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, found := m.values[key]
	return v, found
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) SetDefault(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, found := m.values[key]; !found {
		m.values[key] = value
	}
	return nil
}
