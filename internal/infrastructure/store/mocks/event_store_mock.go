package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/medtrack/internal/infrastructure/store"
)

// AppendCall records a single Append invocation
type AppendCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

// MockEventStore is an in-memory EventStoreInterface for tests. It records
// Append calls and can be primed with historical events.
type MockEventStore struct {
	mu          sync.Mutex
	events      map[string][]store.Event
	snapshots   map[string]*store.Snapshot
	AppendCalls []AppendCall
	AppendErr   error
	// AppendCallback, when set, runs after each successful append
	AppendCallback func(event store.Event)
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:    make(map[string][]store.Event),
		snapshots: make(map[string]*store.Snapshot),
	}
}

func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})

	if m.AppendErr != nil {
		return nil, m.AppendErr
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	event := store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          payload,
		Timestamp:     time.Now(),
		Version:       len(m.events[aggregateID]) + 1,
	}
	m.events[aggregateID] = append(m.events[aggregateID], event)

	if m.AppendCallback != nil {
		m.AppendCallback(event)
	}

	return &event, nil
}

func (m *MockEventStore) GetEvents(aggregateID string) []store.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Event{}, m.events[aggregateID]...)
}

func (m *MockEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []store.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []store.Event
	for _, e := range m.events[aggregateID] {
		if e.Version > fromVersion {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockEventStore) GetAllEvents() []store.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []store.Event
	for _, events := range m.events {
		result = append(result, events...)
	}
	return result
}

func (m *MockEventStore) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshot.AggregateID] = snapshot
	return nil
}

func (m *MockEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshots[aggregateID], nil
}

// AddEvent primes the store with a historical event, bypassing Append recording
func (m *MockEventStore) AddEvent(aggregateID, aggregateType, eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, _ := json.Marshal(data)
	m.events[aggregateID] = append(m.events[aggregateID], store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          payload,
		Timestamp:     time.Now(),
		Version:       len(m.events[aggregateID]) + 1,
	})
}

// Reset clears all recorded state
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.snapshots = make(map[string]*store.Snapshot)
	m.AppendCalls = nil
	m.AppendErr = nil
	m.AppendCallback = nil
}
