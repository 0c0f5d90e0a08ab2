//go:build darwin || linux

package abi_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ebitengine/purego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/laindb/pkg/db"
	"github.com/eigerco/laindb/pkg/db/dbtest"
	"github.com/eigerco/laindb/pkg/db/laindb"
	"github.com/eigerco/laindb/pkg/db/laindb/abi"
)

// compileEngine builds a C source file into a shared library, skipping the
// test when no C compiler is installed.
func compileEngine(t *testing.T, source string) string {
	t.Helper()
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		t.Skipf("no C compiler available: %v", err)
	}

	out := filepath.Join(t.TempDir(), "liblaindb_test.so")
	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, source)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "compiling %s: %s", source, output)
	return out
}

// engineCounters reads the bookkeeping the test engine keeps about live
// native objects.
type engineCounters struct {
	liveHandles func() int32
	liveSlices  func() int32
	sliceDrops  func() int32
}

func loadCounters(t *testing.T, path string) engineCounters {
	t.Helper()
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	require.NoError(t, err)
	t.Cleanup(func() {
		purego.Dlclose(lib) //nolint:errcheck // test cleanup
	})

	var c engineCounters
	purego.RegisterLibFunc(&c.liveHandles, lib, "laindb_testing_live_handles")
	purego.RegisterLibFunc(&c.liveSlices, lib, "laindb_testing_live_slices")
	purego.RegisterLibFunc(&c.sliceDrops, lib, "laindb_testing_slice_drops")
	return c
}

func loadEngine(t *testing.T) (*abi.Native, engineCounters) {
	t.Helper()
	path := compileEngine(t, filepath.Join("testdata", "laindb.c"))

	lib, err := abi.Load(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, lib.Close())
	})
	assert.Equal(t, path, lib.Path())

	return lib, loadCounters(t, path)
}

func TestNativeKVStore(t *testing.T) {
	lib, counters := loadEngine(t)

	opened := 0
	dbtest.RunKVStoreSuite(t, func(t *testing.T) db.KVStore {
		opened++
		store, err := laindb.Open(lib, fmt.Sprintf("suite-%d", opened), db.ModeCreate)
		require.NoError(t, err)
		return store
	})

	assert.Zero(t, counters.liveSlices())
	assert.Zero(t, counters.liveHandles())
}

func TestNativeSliceRelease(t *testing.T) {
	lib, counters := loadEngine(t)

	store, err := laindb.Open(lib, "t1", db.ModeCreate)
	require.NoError(t, err)
	assert.Equal(t, int32(1), counters.liveHandles())

	// Values with NUL bytes and empty values cross the boundary intact.
	require.NoError(t, store.Put("hit", []byte{1, 0, 2}))
	require.NoError(t, store.Put("empty", nil))

	const n = 100
	for i := 0; i < n; i++ {
		value, found, err := store.Get("hit")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte{1, 0, 2}, value)

		_, found, err = store.Get("miss")
		require.NoError(t, err)
		require.False(t, found)
	}
	assert.Equal(t, int32(n), counters.sliceDrops())
	assert.Zero(t, counters.liveSlices())

	value, found, err := store.Get("empty")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{}, value)
	assert.Equal(t, int32(n+1), counters.sliceDrops())

	require.NoError(t, store.Erase("hit"))
	require.NoError(t, store.Erase("hit"))
	_, found, err = store.Get("hit")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
	assert.Zero(t, counters.liveHandles())
	assert.Zero(t, counters.liveSlices())
}

func TestNativeOpenModes(t *testing.T) {
	lib, counters := loadEngine(t)

	_, err := laindb.Open(lib, "t1", db.ModeOpen)
	assert.ErrorIs(t, err, laindb.ErrOpenFailed)

	store, err := laindb.Open(lib, "t1", db.ModeNew)
	require.NoError(t, err)
	require.NoError(t, store.Put("a", []byte("kept")))
	require.NoError(t, store.Close())

	_, err = laindb.Open(lib, "t1", db.ModeNew)
	assert.ErrorIs(t, err, laindb.ErrOpenFailed)

	store, err = laindb.Open(lib, "t1", db.ModeOpen)
	require.NoError(t, err)
	value, found, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("kept"), value)
	require.NoError(t, store.Close())

	assert.Zero(t, counters.liveHandles())
}

func TestLoadMissingSymbol(t *testing.T) {
	source := filepath.Join(t.TempDir(), "partial.c")
	require.NoError(t, os.WriteFile(source, []byte("void *laindb_new(const char *name, int mode) { return 0; }\n"), 0o600))
	path := compileEngine(t, source)

	lib, err := abi.Load(path)
	assert.Nil(t, lib)
	assert.ErrorIs(t, err, abi.ErrMissingSymbol)
	assert.Contains(t, err.Error(), abi.SymGet)
}
