//go:build darwin || linux

package abi

import (
	"fmt"
	"os"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Native binds the laindb engine shared library through purego.
type Native struct {
	path string
	lib  uintptr

	// Go buffers are passed as uintptr and kept alive around each call.
	laindbNew       func(name uintptr, mode int32) unsafe.Pointer
	laindbGet       func(db unsafe.Pointer, key uintptr) unsafe.Pointer
	laindbPut       func(db unsafe.Pointer, key uintptr, value uintptr, length uintptr)
	laindbErase     func(db unsafe.Pointer, key uintptr)
	laindbDrop      func(db unsafe.Pointer)
	laindbSliceLen  func(slice unsafe.Pointer) uintptr
	laindbSliceRaw  func(slice unsafe.Pointer) unsafe.Pointer
	laindbSliceDrop func(slice unsafe.Pointer)
}

// Load opens the engine library at path and resolves every laindb entry point.
// An empty path resolves to LibraryPath().
func Load(path string) (*Native, error) {
	if path == "" {
		path = LibraryPath()
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	n := &Native{path: path, lib: lib}
	symbols := []struct {
		name string
		fptr any
	}{
		{SymNew, &n.laindbNew},
		{SymGet, &n.laindbGet},
		{SymPut, &n.laindbPut},
		{SymErase, &n.laindbErase},
		{SymDrop, &n.laindbDrop},
		{SymSliceLen, &n.laindbSliceLen},
		{SymSliceRaw, &n.laindbSliceRaw},
		{SymSliceDrop, &n.laindbSliceDrop},
	}
	for _, s := range symbols {
		sym, err := purego.Dlsym(lib, s.name)
		if err != nil {
			purego.Dlclose(lib) //nolint:errcheck // already failing
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingSymbol, s.name, err)
		}
		purego.RegisterFunc(s.fptr, sym)
	}

	return n, nil
}

// LibraryPath returns the engine library location: $LAINDB_LIBRARY when set,
// otherwise the platform library name left to the dynamic loader search path.
func LibraryPath() string {
	if p := os.Getenv(LibraryPathEnv); p != "" {
		return p
	}
	return libraryName
}

// Path returns the file the library was loaded from.
func (n *Native) Path() string {
	return n.path
}

func (n *Native) New(name []byte, mode int32) Handle {
	h := n.laindbNew(bytesPtr(name), mode)
	runtime.KeepAlive(name)
	return Handle(h)
}

func (n *Native) Get(db Handle, key []byte) Slice {
	s := n.laindbGet(unsafe.Pointer(db), bytesPtr(key))
	runtime.KeepAlive(key)
	return Slice(s)
}

func (n *Native) Put(db Handle, key []byte, value []byte) {
	n.laindbPut(unsafe.Pointer(db), bytesPtr(key), bytesPtr(value), uintptr(len(value)))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
}

func (n *Native) Erase(db Handle, key []byte) {
	n.laindbErase(unsafe.Pointer(db), bytesPtr(key))
	runtime.KeepAlive(key)
}

func (n *Native) Drop(db Handle) {
	n.laindbDrop(unsafe.Pointer(db))
}

// SliceLen returns -1 when the engine reports a length that does not fit an int.
func (n *Native) SliceLen(slice Slice) int {
	return sliceLength(n.laindbSliceLen(unsafe.Pointer(slice)))
}

func (n *Native) SliceData(slice Slice) unsafe.Pointer {
	return n.laindbSliceRaw(unsafe.Pointer(slice))
}

func (n *Native) SliceDrop(slice Slice) {
	n.laindbSliceDrop(unsafe.Pointer(slice))
}

// Close unloads the engine library. Every Handle opened through it must have
// been dropped first.
func (n *Native) Close() error {
	return purego.Dlclose(n.lib)
}

const maxInt = int(^uint(0) >> 1)

func sliceLength(l uintptr) int {
	if uint64(l) > uint64(maxInt) {
		return -1
	}
	return int(l)
}

// bytesPtr returns a pointer to the first element of a byte slice.
// For empty slices, returns a dummy non-null pointer (the engine requires non-null).
func bytesPtr(b []byte) uintptr {
	if len(b) == 0 {
		return uintptr(unsafe.Pointer(&emptyBuffer))
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

var emptyBuffer byte
