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


package engine

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds configuration for the HTTP provider client.
type Config struct {
	// BaseURL is the root of the search API.
	// Example: "https://serpapi.com"
	BaseURL string

	// APIKey authenticates requests. Sent as the api_key query parameter.
	APIKey string

	// Timeout bounds a single provider call.
	// Zero leaves the transport default in place.
	Timeout time.Duration

	// MaxBodyLog is the number of response body bytes logged when a
	// provider answers with a non-success status.
	// Default: 512
	MaxBodyLog int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the search API root URL.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxBodyLog sets how much of a failed response body is logged.
func WithMaxBodyLog(n int) ConfigOption {
	return func(c *Config) {
		c.MaxBodyLog = n
	}
}

// DefaultConfig returns a Config pointing at the public SerpApi endpoint.
// The API key must still be supplied.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://serpapi.com",
		MaxBodyLog: 512,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//   cfg := NewConfig(
//       WithAPIKey(os.Getenv("HITCOUNT_API_KEY")),
//       WithTimeout(10 * time.Second),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It trims whitespace and any trailing slash from BaseURL.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.MaxBodyLog < 0 {
		c.MaxBodyLog = 0
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: BaseURL %q is not an absolute URL", ErrInvalidConfig, c.BaseURL)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: Timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
