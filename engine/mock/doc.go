// Package mock provides a test double implementation of engine.Fetcher.
//
// The default behavior is content-addressed: the same (provider, word) pair
// always yields the same document, so aggregation results are reproducible
// without network access.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	fetcher := mock.NewFetcher()
//	doc, err := fetcher.Fetch(ctx, "hello", cfg)
//	want := mock.CountFor(cfg.Identifier, "hello")
//
//	// Custom behavior injection
//	fetcher.FetchFunc = func(ctx context.Context, word string, cfg engine.ProviderConfig) (engine.Document, error) {
//	    return engine.Document{"total_results": "1,000"}, nil
//	}
//
//	// Check call counts
//	count := fetcher.CallCount()
package mock
