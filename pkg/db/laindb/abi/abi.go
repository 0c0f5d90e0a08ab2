package abi

import (
	"errors"
	"unsafe"
)

// Entry points exported by the laindb engine library.
const (
	SymNew       = "laindb_new"
	SymGet       = "laindb_get"
	SymPut       = "laindb_put"
	SymErase     = "laindb_erase"
	SymDrop      = "laindb_drop"
	SymSliceLen  = "laindb_slice_len"
	SymSliceRaw  = "laindb_slice_raw"
	SymSliceDrop = "laindb_slice_drop"
)

// LibraryPathEnv names the environment variable that overrides the engine
// library location.
const LibraryPathEnv = "LAINDB_LIBRARY"

var (
	ErrLoad                = errors.New("abi: unable to load engine library")
	ErrMissingSymbol       = errors.New("abi: engine library is missing an entry point")
	ErrUnsupportedPlatform = errors.New("abi: native engine is not supported on this platform")
)

// Handle is an opaque reference to one open database inside the engine.
// A nil Handle is the engine's failure sentinel for laindb_new.
type Handle unsafe.Pointer

// Slice is an engine-owned buffer returned by Get. A nil Slice means the key
// has no entry. A non-nil Slice must be released with SliceDrop exactly once.
type Slice unsafe.Pointer

// Library is the raw laindb entry point set. Names and keys are passed
// NUL-terminated, values by explicit length.
//
// Implementations perform no validation; callers own every lifetime rule.
type Library interface {
	New(name []byte, mode int32) Handle
	Get(db Handle, key []byte) Slice
	Put(db Handle, key []byte, value []byte)
	Erase(db Handle, key []byte)
	Drop(db Handle)
	SliceLen(slice Slice) int
	SliceData(slice Slice) unsafe.Pointer
	SliceDrop(slice Slice)
}
