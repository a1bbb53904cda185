package engine

import "context"

// Document is a decoded provider response.
// Its shape differs between providers; a nil Document means no response.
type Document map[string]any

// Fetcher issues provider calls.
// Implementations must be thread-safe for concurrent use.
type Fetcher interface {
	// Fetch queries the provider described by cfg for a single word.
	// It issues exactly one outbound call and never retries.
	// Every failure (transport, non-success status, undecodable body) is
	// returned as an error wrapping core.ErrProviderCallFailed.
	Fetch(ctx context.Context, word string, cfg ProviderConfig) (Document, error)
}
