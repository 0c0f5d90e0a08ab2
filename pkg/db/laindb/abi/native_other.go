//go:build !(darwin || linux)

package abi

import "unsafe"

// Native is unavailable on this platform; Load always fails.
type Native struct{}

func Load(path string) (*Native, error) {
	return nil, ErrUnsupportedPlatform
}

func LibraryPath() string { return "" }

func (n *Native) Path() string                            { return "" }
func (n *Native) New(name []byte, mode int32) Handle      { return nil }
func (n *Native) Get(db Handle, key []byte) Slice         { return nil }
func (n *Native) Put(db Handle, key []byte, value []byte) {}
func (n *Native) Erase(db Handle, key []byte)             {}
func (n *Native) Drop(db Handle)                          {}
func (n *Native) SliceLen(slice Slice) int                { return 0 }
func (n *Native) SliceData(slice Slice) unsafe.Pointer    { return nil }
func (n *Native) SliceDrop(slice Slice)                   {}
func (n *Native) Close() error                            { return nil }
