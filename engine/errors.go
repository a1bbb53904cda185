package engine

import "errors"

var (
	// ErrInvalidProviderConfig is returned when a registry entry is malformed.
	ErrInvalidProviderConfig = errors.New("invalid provider config")

	// ErrInvalidConfig is returned when a client Config fails validation.
	ErrInvalidConfig = errors.New("invalid engine config")
)
