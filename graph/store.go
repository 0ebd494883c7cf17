package graph

import "context"

// Record is one flat row returned by the graph store: field name to scalar
// value.
type Record map[string]any

// Store is the port to the external graph database. Implementations execute
// read-only queries; this package never issues writes.
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// Run executes a query and returns the matched records.
	// The caller bounds the call with a context deadline.
	Run(ctx context.Context, query string) ([]Record, error)

	// Close releases the underlying connection resources.
	Close(ctx context.Context) error
}
