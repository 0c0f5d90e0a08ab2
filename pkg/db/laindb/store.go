// Package laindb is the Go access layer for the laindb storage engine, a
// prebuilt library reached only through its C ABI.
//
// A Store owns exactly one engine handle. Keys are marshalled as
// NUL-terminated strings, values by explicit length, and every buffer the
// engine returns is copied into Go memory and released before Get returns.
package laindb

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/db/laindb/abi"
	"github.com/eigerco/laindb/pkg/log"
)

// Store is a database opened in the laindb engine. It implements db.KVStore.
//
// Close must be called to release the engine handle; a Store that is garbage
// collected while still open releases its handle from a finalizer. All calls
// into the engine for one Store are serialized.
type Store struct {
	lib  abi.Library
	name string
	mode db.Mode
	log  zerolog.Logger

	mu     sync.Mutex
	handle abi.Handle
	closed bool
}

var _ db.KVStore = (*Store)(nil)

type Option func(*Store)

// WithLogger replaces the default store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Open opens the database called name in the engine behind lib.
func Open(lib abi.Library, name string, mode db.Mode, opts ...Option) (*Store, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", db.ErrInvalidMode, mode)
	}
	cname, err := encodeName(name)
	if err != nil {
		return nil, err
	}

	s := &Store{
		lib:  lib,
		name: name,
		mode: mode,
		log:  log.Store,
	}
	for _, opt := range opts {
		opt(s)
	}

	h := lib.New(cname, modeCode(mode))
	if h == nil {
		return nil, fmt.Errorf("%w: %q in %s mode", ErrOpenFailed, name, mode)
	}
	s.handle = h
	runtime.SetFinalizer(s, (*Store).finalize)

	s.log.Debug().Str("name", name).Stringer("mode", mode).Msg("database opened")
	return s, nil
}

// Name returns the database name the store was opened with.
func (s *Store) Name() string {
	return s.name
}

// Get returns a copy of the value stored under key. A missing key yields
// found == false and no error.
func (s *Store) Get(key string) ([]byte, bool, error) {
	ckey, err := encodeKey(key)
	if err != nil {
		return nil, false, err
	}

	var (
		value []byte
		found bool
	)
	err = s.withHandle(func(h abi.Handle) error {
		var err error
		value, found, err = takeSlice(s.lib, s.lib.Get(h, ckey))
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return value, found, nil
}

// Put stores value under key, replacing any existing value.
func (s *Store) Put(key string, value []byte) error {
	ckey, err := encodeKey(key)
	if err != nil {
		return err
	}
	return s.withHandle(func(h abi.Handle) error {
		s.lib.Put(h, ckey, value)
		return nil
	})
}

// Erase removes key. Erasing an absent key succeeds.
func (s *Store) Erase(key string) error {
	ckey, err := encodeKey(key)
	if err != nil {
		return err
	}
	return s.withHandle(func(h abi.Handle) error {
		s.lib.Erase(h, ckey)
		return nil
	})
}

// Close releases the engine handle. Only the first call reaches the engine.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	runtime.SetFinalizer(s, nil)
	s.dropLocked()
	s.log.Debug().Str("name", s.name).Msg("database closed")
	return nil
}

func (s *Store) withHandle(fn func(h abi.Handle) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return db.ErrClosed
	}
	err := fn(s.handle)
	// The finalizer must not release the handle while fn is using it.
	runtime.KeepAlive(s)
	return err
}

func (s *Store) finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.log.Warn().Str("name", s.name).Msg("store was not closed, releasing handle from finalizer")
	s.dropLocked()
}

func (s *Store) dropLocked() {
	s.closed = true
	s.lib.Drop(s.handle)
	s.handle = nil
}
