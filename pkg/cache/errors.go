package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrClosed is returned by operations on a cache after Close.
	ErrClosed = errors.New("cache closed")

	// ErrUnavailable wraps connectivity failures of a remote backend.
	ErrUnavailable = errors.New("cache unavailable")
)
