package store

import (
	"sync"
)

// ReadStore keeps read models in memory. The projector rebuilds it from the
// event store on startup, so losing it on restart costs only the replay time.
type ReadStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]any // collection -> id -> read model
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		collections: make(map[string]map[string]any),
	}
}

// Set stores or replaces a read model
func (rs *ReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.collections[collection] == nil {
		rs.collections[collection] = make(map[string]any)
	}
	rs.collections[collection][id] = data
}

// Get retrieves a read model by id
func (rs *ReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	items, ok := rs.collections[collection]
	if !ok {
		return nil, false
	}
	data, ok := items[id]
	return data, ok
}

// GetAll retrieves every item in a collection
func (rs *ReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	items, ok := rs.collections[collection]
	if !ok {
		return nil
	}

	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

// Delete removes a read model
func (rs *ReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if items, ok := rs.collections[collection]; ok {
		delete(items, id)
	}
}

// Update applies fn to an existing read model; false when the id is unknown
func (rs *ReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	items, ok := rs.collections[collection]
	if !ok {
		return false
	}
	current, ok := items[id]
	if !ok {
		return false
	}
	items[id] = updateFn(current)
	return true
}
