package storage

import (
	"context"

	"github.com/poiesic/hitcount/core"
)

// HistoryRepository stores completed searches.
// Implementations must be thread-safe and support concurrent access.
type HistoryRepository interface {
	// AddSearch stores a completed search.
	// Always generates a new ID from sequence.
	// Sets SearchedAt to the current time if it is zero.
	// Returns the record with ID and timestamp populated.
	AddSearch(ctx context.Context, record *core.SearchRecord) (*core.SearchRecord, error)

	// GetSearch retrieves a single search by ID.
	// Returns ErrNotFound if the search doesn't exist.
	GetSearch(ctx context.Context, id core.ID) (*core.SearchRecord, error)

	// GetRecentSearches retrieves up to limit searches, most recent first.
	GetRecentSearches(ctx context.Context, limit int) ([]*core.SearchRecord, error)

	// Close releases resources held by the repository.
	Close() error
}
