// Package abitest provides an instrumented, in-memory stand-in for the laindb
// engine library. It honours the engine contract, counts every entry point
// call and records lifetime violations instead of corrupting memory.
package abitest

import (
	"bytes"
	"fmt"
	"sync"
	"unsafe"

	"github.com/eigerco/laindb/pkg/db/laindb/abi"
)

// Mode codes understood by laindb_new.
const (
	modeOpen   = 1
	modeNew    = 2
	modeCreate = 3
)

// poison overwrites released slice buffers so a read after release is visible
// as corrupted data.
const poison = 0xDD

type handle struct {
	name    string
	dropped bool
}

type slice struct {
	buf     []byte
	dropped bool
}

// Library implements abi.Library. The zero value is not usable; call New.
type Library struct {
	mu sync.Mutex

	databases  map[string]map[string][]byte
	handles    map[*handle]struct{}
	slices     map[*slice]struct{}
	calls      map[string]int
	violations []string
}

var _ abi.Library = (*Library)(nil)

func New() *Library {
	return &Library{
		databases: make(map[string]map[string][]byte),
		handles:   make(map[*handle]struct{}),
		slices:    make(map[*slice]struct{}),
		calls:     make(map[string]int),
	}
}

func (l *Library) New(name []byte, mode int32) abi.Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymNew]++

	n, ok := l.cString(abi.SymNew, name)
	if !ok {
		return nil
	}
	_, exists := l.databases[n]
	switch mode {
	case modeOpen:
		if !exists {
			return nil
		}
	case modeNew:
		if exists {
			return nil
		}
		l.databases[n] = make(map[string][]byte)
	case modeCreate:
		if !exists {
			l.databases[n] = make(map[string][]byte)
		}
	default:
		l.violate("%s: unknown mode code %d", abi.SymNew, mode)
		return nil
	}

	h := &handle{name: n}
	l.handles[h] = struct{}{}
	return abi.Handle(unsafe.Pointer(h))
}

func (l *Library) Get(db abi.Handle, key []byte) abi.Slice {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymGet]++

	data, ok := l.database(abi.SymGet, db)
	if !ok {
		return nil
	}
	k, ok := l.cString(abi.SymGet, key)
	if !ok {
		return nil
	}
	v, found := data[k]
	if !found {
		return nil
	}
	s := &slice{buf: bytes.Clone(v)}
	if s.buf == nil {
		s.buf = []byte{}
	}
	l.slices[s] = struct{}{}
	return abi.Slice(unsafe.Pointer(s))
}

func (l *Library) Put(db abi.Handle, key []byte, value []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymPut]++

	data, ok := l.database(abi.SymPut, db)
	if !ok {
		return
	}
	k, ok := l.cString(abi.SymPut, key)
	if !ok {
		return
	}
	data[k] = bytes.Clone(value)
}

func (l *Library) Erase(db abi.Handle, key []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymErase]++

	data, ok := l.database(abi.SymErase, db)
	if !ok {
		return
	}
	k, ok := l.cString(abi.SymErase, key)
	if !ok {
		return
	}
	delete(data, k)
}

func (l *Library) Drop(db abi.Handle) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymDrop]++

	h, ok := l.handle(abi.SymDrop, db)
	if !ok {
		return
	}
	h.dropped = true
}

func (l *Library) SliceLen(s abi.Slice) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymSliceLen]++

	sl, ok := l.slice(abi.SymSliceLen, s)
	if !ok {
		return 0
	}
	return len(sl.buf)
}

func (l *Library) SliceData(s abi.Slice) unsafe.Pointer {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymSliceRaw]++

	sl, ok := l.slice(abi.SymSliceRaw, s)
	if !ok {
		return nil
	}
	if len(sl.buf) == 0 {
		return unsafe.Pointer(&emptyBuffer)
	}
	return unsafe.Pointer(&sl.buf[0])
}

func (l *Library) SliceDrop(s abi.Slice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[abi.SymSliceDrop]++

	sl, ok := l.slice(abi.SymSliceDrop, s)
	if !ok {
		return
	}
	for i := range sl.buf {
		sl.buf[i] = poison
	}
	sl.dropped = true
}

// Calls returns the number of times the entry point named sym was invoked.
func (l *Library) Calls(sym string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[sym]
}

// TotalCalls returns the number of entry point invocations of any kind.
func (l *Library) TotalCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, c := range l.calls {
		total += c
	}
	return total
}

// LiveHandles returns the number of handles opened and not yet dropped.
func (l *Library) LiveHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := 0
	for h := range l.handles {
		if !h.dropped {
			live++
		}
	}
	return live
}

// LiveSlices returns the number of slices handed out and not yet dropped.
func (l *Library) LiveSlices() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	live := 0
	for s := range l.slices {
		if !s.dropped {
			live++
		}
	}
	return live
}

// Violations returns every contract violation observed so far.
func (l *Library) Violations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.violations...)
}

// Exists reports whether a database called name has been created.
func (l *Library) Exists(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.databases[name]
	return ok
}

// Entries returns a copy of the contents of the named database.
func (l *Library) Entries(name string) map[string][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string][]byte, len(l.databases[name]))
	for k, v := range l.databases[name] {
		out[k] = bytes.Clone(v)
	}
	return out
}

func (l *Library) database(sym string, db abi.Handle) (map[string][]byte, bool) {
	h, ok := l.handle(sym, db)
	if !ok {
		return nil, false
	}
	if h.dropped {
		l.violate("%s: handle for %q used after drop", sym, h.name)
		return nil, false
	}
	return l.databases[h.name], true
}

func (l *Library) handle(sym string, db abi.Handle) (*handle, bool) {
	if db == nil {
		l.violate("%s: null handle", sym)
		return nil, false
	}
	h := (*handle)(unsafe.Pointer(db))
	if _, ok := l.handles[h]; !ok {
		l.violate("%s: unknown handle", sym)
		return nil, false
	}
	if sym == abi.SymDrop && h.dropped {
		l.violate("%s: handle for %q dropped twice", sym, h.name)
		return nil, false
	}
	return h, true
}

func (l *Library) slice(sym string, s abi.Slice) (*slice, bool) {
	if s == nil {
		l.violate("%s: null slice", sym)
		return nil, false
	}
	sl := (*slice)(unsafe.Pointer(s))
	if _, ok := l.slices[sl]; !ok {
		l.violate("%s: unknown slice", sym)
		return nil, false
	}
	if sl.dropped {
		l.violate("%s: slice used after drop", sym)
		return nil, false
	}
	return sl, true
}

func (l *Library) cString(sym string, b []byte) (string, bool) {
	if len(b) == 0 || b[len(b)-1] != 0 {
		l.violate("%s: string is not NUL-terminated", sym)
		return "", false
	}
	if i := bytes.IndexByte(b, 0); i != len(b)-1 {
		l.violate("%s: string truncated by NUL at offset %d", sym, i)
		return "", false
	}
	return string(b[:len(b)-1]), true
}

func (l *Library) violate(format string, args ...any) {
	l.violations = append(l.violations, fmt.Sprintf(format, args...))
}

var emptyBuffer byte
