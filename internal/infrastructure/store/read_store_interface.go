package store

// ReadStoreInterface is the storage behind the dashboard's read models.
// Collections in use: "jobs", "parts", "users" and "sessions". Implemented
// in memory for single-process deployments and by PostgresReadStore when
// projections must survive restarts.
type ReadStoreInterface interface {
	// Set stores or replaces a read model
	Set(collection, id string, data any)

	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves every item in a collection, in no particular order
	GetAll(collection string) []any

	// Delete removes a read model
	Delete(collection, id string)

	// Update applies fn to an existing read model in place. Returns false
	// when the id is unknown, which projections treat as an out-of-order
	// event and skip.
	Update(collection, id string, updateFn func(current any) any) bool
}
