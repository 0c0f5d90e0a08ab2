package pebble

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog"

	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/log"
)

// KVStore is a db.KVStore on top of a pebble database directory. It follows
// the laindb key rules so both engines accept the same inputs.
type KVStore struct {
	db     *pebble.DB
	path   string
	closed bool
	mu     sync.RWMutex
	log    zerolog.Logger
}

var _ db.KVStore = (*KVStore)(nil)

type options struct {
	inMemory bool
	log      zerolog.Logger
}

type Option func(*options)

// WithInMemory keeps the database in memory instead of on disk.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithLogger replaces the default engine logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// Open opens the database directory at path, honouring mode.
func Open(path string, mode db.Mode, opts ...Option) (*KVStore, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", db.ErrInvalidMode, mode)
	}
	o := options{log: log.Engine}
	for _, opt := range opts {
		opt(&o)
	}

	pebbleOpts := &pebble.Options{
		Cache:            pebble.NewCache(64 * 1024 * 1024), // 64MB
		MemTableSize:     32 * 1024 * 1024,                  // 32MB
		ErrorIfExists:    mode == db.ModeNew,
		ErrorIfNotExists: mode == db.ModeOpen,
		Logger:           zerologAdapter{log: o.log},
	}
	defer pebbleOpts.Cache.Unref()
	if o.inMemory {
		pebbleOpts.FS = vfs.NewMem()
	}

	pdb, err := pebble.Open(path, pebbleOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q in %s mode: %w", ErrOpenFailed, path, mode, err)
	}

	o.log.Debug().Str("path", path).Stringer("mode", mode).Msg("database opened")
	return &KVStore{db: pdb, path: path, log: o.log}, nil
}

func (p *KVStore) Get(key string) ([]byte, bool, error) {
	if err := db.ValidateKey(key); err != nil {
		return nil, false, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, false, db.ErrClosed
	}

	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close() //nolint:errcheck // value already copied

	result := make([]byte, len(value))
	copy(result, value)
	return result, true, nil
}

func (p *KVStore) Put(key string, value []byte) error {
	if err := db.ValidateKey(key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return db.ErrClosed
	}

	return p.db.Set([]byte(key), value, pebble.Sync)
}

func (p *KVStore) Erase(key string) error {
	if err := db.ValidateKey(key); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return db.ErrClosed
	}

	return p.db.Delete([]byte(key), pebble.Sync)
}

func (p *KVStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Debug().Str("path", p.path).Msg("database closed")
	return p.db.Close()
}
