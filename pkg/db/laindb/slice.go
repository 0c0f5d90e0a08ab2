package laindb

import (
	"fmt"
	"unsafe"

	"github.com/eigerco/laindb/pkg/db/laindb/abi"
)

// takeSlice moves the engine-owned result of a Get into Go memory.
//
// A nil slice is a lookup miss and is not released. Otherwise the length is
// queried, the bytes are copied and the slice is released exactly once, after
// the copy and on every return path. The returned value never aliases engine
// memory; a present but empty value is a non-nil empty slice.
func takeSlice(lib abi.Library, slice abi.Slice) (value []byte, found bool, err error) {
	if slice == nil {
		return nil, false, nil
	}
	defer lib.SliceDrop(slice)

	n := lib.SliceLen(slice)
	if n < 0 {
		return nil, false, fmt.Errorf("%w: length %d", ErrSliceLength, n)
	}
	value = make([]byte, n)
	if n == 0 {
		return value, true, nil
	}

	data := lib.SliceData(slice)
	if data == nil {
		return nil, false, fmt.Errorf("%w: null data for length %d", ErrSliceLength, n)
	}
	copy(value, unsafe.Slice((*byte)(data), n))
	return value, true, nil
}
