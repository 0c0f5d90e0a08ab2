package laindb

import "errors"

var (
	// ErrInvalidName is returned when a database name is empty or contains a
	// NUL byte.
	ErrInvalidName = errors.New("laindb: invalid database name")

	// ErrOpenFailed is returned when the engine answers laindb_new with a null
	// handle, for example when the mode contract does not hold.
	ErrOpenFailed = errors.New("laindb: engine failed to open database")

	// ErrSliceLength is returned when the engine reports a result buffer that
	// cannot be copied into Go memory.
	ErrSliceLength = errors.New("laindb: invalid result buffer")
)
