package store

import "context"

// EventStoreInterface is satisfied by the in-memory, PostgreSQL and DynamoDB
// event stores. Snapshot support exists so long-lived aggregates (busy
// maintenance jobs, frequently consumed parts) can be loaded without
// replaying their full history.
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event
	GetAllEvents() []Event
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
}
