package storage

import (
	"context"
	"time"

	"github.com/trafficlens/roadrag/core"
)

// HistoryRepository provides operations for the exchange history.
// Implementations must be thread-safe and support concurrent access.
type HistoryRepository interface {
	// AddExchange persists a completed exchange.
	// For exchanges with Id=0, generates a new ID from sequence.
	// Sets CreatedAt if not already set.
	// Returns the exchange with ID and timestamp populated.
	AddExchange(ctx context.Context, exchange *core.Exchange) (*core.Exchange, error)

	// GetExchange retrieves a single exchange by ID.
	// Returns ErrNotFound if the exchange doesn't exist.
	GetExchange(ctx context.Context, id core.ID) (*core.Exchange, error)

	// RecentExchanges retrieves the N most recent exchanges, most recent
	// first. Returns up to limit exchanges.
	RecentExchanges(ctx context.Context, limit int) ([]*core.Exchange, error)

	// ExchangesByDateRange retrieves exchanges within a time range.
	// Returns exchanges where start <= CreatedAt < end, ordered by CreatedAt.
	ExchangesByDateRange(ctx context.Context, start, end time.Time) ([]*core.Exchange, error)

	// Close closes the repository and releases resources.
	Close() error
}
