// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package engine describes the external web-search providers queried by hitcount.
//
// The package owns two things:
//
//   - Registry: the fixed table of supported providers, each with the query
//     parameter its API expects and the multiplier used when a response only
//     carries a sample of organic results
//   - Fetcher: the interface for issuing one provider call for one word and
//     returning the raw response Document
//
// # Implementation Packages
//
//   - engine/serpapi: Production Fetcher backed by a SerpApi-compatible HTTP endpoint
//   - engine/mock: Content-addressed Fetcher for tests
//
// Public constructors for production implementations return the Fetcher
// interface. The mock constructor returns its concrete type so tests can inject
// behavior and read call counts.
//
// # Usage Example
//
//	registry := engine.DefaultRegistry()
//	cfg, err := registry.Lookup("Google")
//	if err != nil {
//	    return err // wraps core.ErrUnsupportedProvider
//	}
//
//	fetcher, err := serpapi.NewFetcher(engine.NewConfig(engine.WithAPIKey(key)))
//	doc, err := fetcher.Fetch(ctx, "hello", cfg)
package engine
