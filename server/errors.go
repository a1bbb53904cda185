package server

import "errors"

var (
	// ErrSearcherRequired is returned when a searcher is not provided.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrHistoryDisabled is returned when history is requested but no
	// history repository is configured.
	ErrHistoryDisabled = errors.New("search history is disabled")
)
