package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/hitcount/core"
)

// ProviderConfig describes how to query one provider.
type ProviderConfig struct {
	// Identifier is the canonical lowercase provider name, e.g. "google".
	Identifier string

	// QueryParam is the name of the query-string parameter carrying the word.
	QueryParam string

	// FallbackMultiplier scales the number of organic results in a response
	// into an estimated total when the provider reports no total of its own.
	FallbackMultiplier int64
}

// Registry is an immutable table of supported providers.
// It is built once at startup and is safe for concurrent reads.
type Registry struct {
	configs map[string]ProviderConfig
	names   []string
}

// NewRegistry builds a registry from the given provider configs.
// Identifiers are normalized to lowercase and must be unique.
func NewRegistry(configs ...ProviderConfig) (*Registry, error) {
	r := &Registry{
		configs: make(map[string]ProviderConfig, len(configs)),
		names:   make([]string, 0, len(configs)),
	}

	for _, cfg := range configs {
		key := normalizeIdentifier(cfg.Identifier)
		if key == "" {
			return nil, fmt.Errorf("%w: identifier is required", ErrInvalidProviderConfig)
		}
		if strings.TrimSpace(cfg.QueryParam) == "" {
			return nil, fmt.Errorf("%w: %s: query parameter is required", ErrInvalidProviderConfig, key)
		}
		if cfg.FallbackMultiplier < 0 {
			return nil, fmt.Errorf("%w: %s: fallback multiplier must not be negative", ErrInvalidProviderConfig, key)
		}
		if _, exists := r.configs[key]; exists {
			return nil, fmt.Errorf("%w: duplicate identifier %q", ErrInvalidProviderConfig, key)
		}

		cfg.Identifier = key
		r.configs[key] = cfg
		r.names = append(r.names, key)
	}

	slices.Sort(r.names)
	return r, nil
}

// DefaultRegistry returns the built-in provider table.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultProviders...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultProviders = []ProviderConfig{
	{Identifier: "google", QueryParam: "q", FallbackMultiplier: 100000},
	{Identifier: "bing", QueryParam: "q", FallbackMultiplier: 50000},
	{Identifier: "yahoo", QueryParam: "p", FallbackMultiplier: 20000},
	{Identifier: "duckduckgo", QueryParam: "q", FallbackMultiplier: 10000},
	{Identifier: "baidu", QueryParam: "q", FallbackMultiplier: 50000},
	{Identifier: "yandex", QueryParam: "text", FallbackMultiplier: 20000},
}

// Lookup returns the config for identifier, ignoring case and surrounding whitespace.
// Unknown identifiers return an error wrapping core.ErrUnsupportedProvider.
func (r *Registry) Lookup(identifier string) (ProviderConfig, error) {
	cfg, ok := r.configs[normalizeIdentifier(identifier)]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %q", core.ErrUnsupportedProvider, identifier)
	}
	return cfg, nil
}

// Providers returns the registered identifiers in sorted order.
func (r *Registry) Providers() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.names)
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
