package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EngineTotals maps a provider identifier, exactly as the caller supplied it,
// to the summed result count for every word of the query.
// A provider that failed completely reports 0 rather than being omitted.
type EngineTotals map[string]int64

// Total returns the count for provider, or 0 if it is absent.
func (t EngineTotals) Total(provider string) int64 {
	return t[provider]
}

// Clone returns an independent copy of the totals.
func (t EngineTotals) Clone() EngineTotals {
	out := make(EngineTotals, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// SearchResponse is the result of one aggregated search request.
type SearchResponse struct {
	Query     string       `json:"query"`
	Providers []string     `json:"providers"`
	Totals    EngineTotals `json:"totals"`
}

// SearchRecord is a completed search kept in the history store.
type SearchRecord struct {
	Id         ID
	Query      string
	Providers  []string
	Totals     EngineTotals
	SearchedAt time.Time // When the aggregation finished
}

// RecordFromResponse builds a history record for a finished search.
func RecordFromResponse(resp *SearchResponse, searchedAt time.Time) *SearchRecord {
	providers := make([]string, len(resp.Providers))
	copy(providers, resp.Providers)
	return &SearchRecord{
		Query:      resp.Query,
		Providers:  providers,
		Totals:     resp.Totals.Clone(),
		SearchedAt: searchedAt,
	}
}
