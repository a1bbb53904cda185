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


package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxQueryLength is the maximum query length in characters.
	MaxQueryLength = 500

	// MaxProviders is the maximum number of providers in one request.
	MaxProviders = 6
)

// queryPunctuation lists the non-alphanumeric characters allowed in a query.
const queryPunctuation = "-'.&+"

// ValidateSearchRequest validates a search request before it reaches the aggregator.
//
// Validation rules:
//   - Query must contain at least one non-whitespace character
//   - Query must be at most MaxQueryLength characters
//   - Query may only contain letters, digits, whitespace and -'.&+
//   - Between 1 and MaxProviders providers must be given
//   - Every provider must appear in allowed (case-insensitive)
func ValidateSearchRequest(query string, providers []string, allowed []string) error {
	if err := ValidateQuery(query); err != nil {
		return err
	}
	return ValidateProviders(providers, allowed)
}

// ValidateQuery validates the query text.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQuery)
	}

	if n := utf8.RuneCountInString(query); n > MaxQueryLength {
		return fmt.Errorf("%w: %w: %d characters", ErrInvalidQuery, ErrQueryTooLong, n)
	}

	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(queryPunctuation, r) {
			continue
		}
		return fmt.Errorf("%w: %w: %q", ErrInvalidQuery, ErrQueryCharacters, r)
	}

	return nil
}

// ValidateProviders checks the provider count and whitelist membership.
func ValidateProviders(providers []string, allowed []string) error {
	if len(providers) == 0 {
		return fmt.Errorf("%w: at least one provider is required", ErrInvalidProviders)
	}
	if len(providers) > MaxProviders {
		return fmt.Errorf("%w: at most %d providers allowed, got %d", ErrInvalidProviders, MaxProviders, len(providers))
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[strings.ToLower(name)] = true
	}

	for _, provider := range providers {
		if !allowedSet[strings.ToLower(strings.TrimSpace(provider))] {
			return fmt.Errorf("%w: %q is not allowed", ErrInvalidProviders, provider)
		}
	}

	return nil
}
