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


package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
)

// maxCount bounds the default generated counts.
const maxCount = 1_000_000_000

// Fetcher is a test double for engine.Fetcher.
// It allows custom behavior injection via function fields.
type Fetcher struct {
	// FetchFunc is called by Fetch if set.
	// If nil, returns a deterministic document derived from provider and word.
	FetchFunc func(ctx context.Context, word string, cfg engine.ProviderConfig) (engine.Document, error)

	callCount atomic.Int64
}

var _ engine.Fetcher = (*Fetcher)(nil)

// NewFetcher creates a mock fetcher with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// Fetch returns a document whose total is CountFor(cfg.Identifier, word).
// Safe for concurrent use.
func (m *Fetcher) Fetch(ctx context.Context, word string, cfg engine.ProviderConfig) (engine.Document, error) {
	m.callCount.Add(1)

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, word, cfg)
	}

	return engine.Document{
		"search_information": map[string]any{
			"total_results": CountFor(cfg.Identifier, word),
		},
	}, nil
}

// CallCount returns the number of times Fetch was called.
func (m *Fetcher) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *Fetcher) Reset() {
	m.callCount.Store(0)
	m.FetchFunc = nil
}

// CountFor returns the count the default Fetch reports for provider and word.
// The value is derived from a BLAKE2b hash of the lowercased provider and the
// word, and is always in [1, 1e9].
func CountFor(provider, word string) int64 {
	id := core.IDFromContent(strings.ToLower(provider) + ":" + word)
	return int64(uint64(id)%maxCount) + 1
}
