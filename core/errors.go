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

import "errors"

// Search errors
var (
	// ErrUnsupportedProvider indicates a requested provider is not in the registry.
	// It is fatal for the whole request.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrProviderCallFailed indicates a single (word, provider) call failed.
	// The aggregator recovers from it and counts the word as 0.
	ErrProviderCallFailed = errors.New("provider call failed")

	// ErrNilProviders indicates the provider list itself was nil.
	ErrNilProviders = errors.New("provider list is nil")
)

// Request validation errors
var (
	// ErrInvalidQuery indicates the query failed validation.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidProviders indicates the provider list failed validation.
	ErrInvalidProviders = errors.New("invalid providers")

	// ErrEmptyQuery indicates the query is empty or whitespace only.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrQueryTooLong indicates the query exceeds MaxQueryLength characters.
	ErrQueryTooLong = errors.New("query is too long")

	// ErrQueryCharacters indicates the query contains characters outside the whitelist.
	ErrQueryCharacters = errors.New("query contains unsupported characters")
)
