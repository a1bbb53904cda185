package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/poiesic/hitcount/core"
	"github.com/poiesic/hitcount/engine"
)

const searchPath = "/search.json"

// Client implements engine.Fetcher over HTTP.
type Client struct {
	config *engine.Config
	client *http.Client
	logger *slog.Logger
}

var _ engine.Fetcher = (*Client)(nil)

// newClient is an internal constructor that returns the concrete type.
func newClient(config *engine.Config, httpClient *http.Client) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", engine.ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		config: config,
		client: httpClient,
		logger: slog.Default().With("component", "serpapi-fetcher"),
	}, nil
}

// NewFetcher creates a fetcher using the provided configuration.
//
// Returns engine.Fetcher interface to enforce abstraction.
func NewFetcher(config *engine.Config) (engine.Fetcher, error) {
	return newClient(config, nil)
}

// NewFetcherWithHTTPClient creates a fetcher that issues requests through httpClient.
// config.Timeout is ignored; the supplied client's own settings apply.
func NewFetcherWithHTTPClient(config *engine.Config, httpClient *http.Client) (engine.Fetcher, error) {
	return newClient(config, httpClient)
}

// Fetch queries one provider for one word and decodes the JSON response.
func (c *Client) Fetch(ctx context.Context, word string, cfg engine.ProviderConfig) (engine.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(word, cfg), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: create request: %w", core.ErrProviderCallFailed, cfg.Identifier, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("querying provider", "provider", cfg.Identifier, "word", word)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrProviderCallFailed, cfg.Identifier, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(c.config.MaxBodyLog)))
		c.logger.Warn("provider returned non-success status",
			"provider", cfg.Identifier,
			"word", word,
			"status", resp.StatusCode,
			"body", string(body))
		return nil, fmt.Errorf("%w: %s: status %d", core.ErrProviderCallFailed, cfg.Identifier, resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var doc engine.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: decode response: %w", core.ErrProviderCallFailed, cfg.Identifier, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: empty response document", core.ErrProviderCallFailed, cfg.Identifier)
	}

	return doc, nil
}

// requestURL builds the search URL for word against the given provider.
func (c *Client) requestURL(word string, cfg engine.ProviderConfig) string {
	q := url.Values{}
	q.Set("engine", cfg.Identifier)
	q.Set(cfg.QueryParam, word)
	q.Set("api_key", c.config.APIKey)
	return c.config.BaseURL + searchPath + "?" + q.Encode()
}

// redact strips the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
