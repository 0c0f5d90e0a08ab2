package pebble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/db/dbtest"
)

func TestKVStore(t *testing.T) {
	dbtest.RunKVStoreSuite(t, func(t *testing.T) db.KVStore {
		store, err := Open("t1", db.ModeCreate, WithInMemory())
		require.NoError(t, err)
		return store
	})
}

func TestOpenModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t1")

	_, err := Open(path, db.ModeOpen)
	assert.ErrorIs(t, err, ErrOpenFailed)

	store, err := Open(path, db.ModeNew)
	require.NoError(t, err)
	require.NoError(t, store.Put("a", []byte{1}))
	require.NoError(t, store.Close())

	_, err = Open(path, db.ModeNew)
	assert.ErrorIs(t, err, ErrOpenFailed)

	store, err = Open(path, db.ModeOpen)
	require.NoError(t, err)
	value, found, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{1}, value)
	require.NoError(t, store.Close())

	store, err = Open(path, db.ModeCreate)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = Open(path, db.Mode(5))
	assert.ErrorIs(t, err, db.ErrInvalidMode)
}
