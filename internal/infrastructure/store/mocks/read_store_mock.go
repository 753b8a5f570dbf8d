package mocks

import (
	"sync"
)

// MockReadStore is an in-memory ReadStoreInterface for tests
type MockReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{data: make(map[string]map[string]any)}
}

func (m *MockReadStore) Set(collection, id string, item any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	m.data[collection][id] = item
}

func (m *MockReadStore) Get(collection, id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.data[collection][id]
	return item, ok
}

func (m *MockReadStore) GetAll(collection string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]any, 0, len(m.data[collection]))
	for _, item := range m.data[collection] {
		items = append(items, item)
	}
	return items
}

func (m *MockReadStore) Delete(collection, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[collection], id)
}

func (m *MockReadStore) Update(collection, id string, fn func(current any) any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.data[collection][id]
	if !ok {
		return false
	}
	m.data[collection][id] = fn(current)
	return true
}
