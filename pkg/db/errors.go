package db

import "errors"

var (
	// ErrClosed is returned by operations on a store that has been closed.
	ErrClosed = errors.New("kv-store: database is closed")

	// ErrInvalidKey is returned when a key cannot be represented by the
	// engine, for example because it contains a NUL byte.
	ErrInvalidKey = errors.New("kv-store: invalid key")

	// ErrInvalidMode is returned when an open mode outside of Open, New and
	// Create is requested.
	ErrInvalidMode = errors.New("kv-store: invalid open mode")
)
