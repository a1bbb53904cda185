// Package serpapi provides an engine.Fetcher backed by a SerpApi-compatible HTTP API.
//
// Every provider is reached through the same endpoint; the provider is chosen
// with the engine query parameter and the word travels in the provider's own
// query parameter (q, p, text, ...):
//
//	GET <BaseURL>/search.json?engine=yahoo&p=hello&api_key=...
//
// # Usage
//
//	config := engine.NewConfig(engine.WithAPIKey(key))
//	fetcher, err := serpapi.NewFetcher(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, _ := engine.DefaultRegistry().Lookup("google")
//	doc, err := fetcher.Fetch(ctx, "hello", cfg)
package serpapi
