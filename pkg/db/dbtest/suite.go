// Package dbtest holds the behaviour every db.KVStore engine must share.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/eigerco/laindb/pkg/db"
)

// OpenFunc opens a fresh, empty store for one test.
type OpenFunc func(t *testing.T) db.KVStore

// RunKVStoreSuite runs the shared behaviour tests against the engine opened by
// open.
func RunKVStoreSuite(t *testing.T, open OpenFunc) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{
			name: "basic_put_get",
			fn:   testBasicPutGet,
		},
		{
			name: "miss_is_not_an_error",
			fn:   testMiss,
		},
		{
			name: "overwrite",
			fn:   testOverwrite,
		},
		{
			name: "empty_and_binary_values",
			fn:   testBinaryValues,
		},
		{
			name: "erase_operations",
			fn:   testErase,
		},
		{
			name: "invalid_keys",
			fn:   testInvalidKeys,
		},
		{
			name: "scenario",
			fn:   testScenario,
		},
		{
			name: "store_closure",
			fn:   testStoreClosure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := open(t)
			defer store.Close() //nolint:errcheck // closure is tested separately

			tc.fn(t, store)
		})
	}

	t.Run("round_trip_property", func(t *testing.T) {
		store := open(t)
		defer store.Close() //nolint:errcheck // closure is tested separately

		CheckRoundTrip(t, store)
	})

	t.Run("model_property", func(t *testing.T) {
		store := open(t)
		defer store.Close() //nolint:errcheck // closure is tested separately

		CheckModel(t, store)
	})
}

func testBasicPutGet(t *testing.T, store db.KVStore) {
	err := store.Put("test-key", []byte("test-value"))
	require.NoError(t, err)

	value, found, err := store.Get("test-key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("test-value"), value)
}

func testMiss(t *testing.T, store db.KVStore) {
	value, found, err := store.Get("non-existent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
}

func testOverwrite(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put("k", []byte("v1")))
	require.NoError(t, store.Put("k", []byte("v2")))

	value, found, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v2"), value)
}

func testBinaryValues(t *testing.T, store db.KVStore) {
	// A present empty value must be distinguishable from a miss.
	require.NoError(t, store.Put("empty", nil))
	value, found, err := store.Get("empty")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, value)
	assert.Empty(t, value)

	binary := []byte{0x00, 0xff, 0x00, 0x01, 0x00}
	require.NoError(t, store.Put("binary", binary))
	value, found, err = store.Get("binary")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, binary, value)

	// The returned copy is owned by the caller.
	value[0] = 0x7f
	again, _, err := store.Get("binary")
	require.NoError(t, err)
	assert.Equal(t, binary, again)
}

func testErase(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put("delete-test", []byte("to-be-deleted")))
	require.NoError(t, store.Erase("delete-test"))

	_, found, err := store.Get("delete-test")
	require.NoError(t, err)
	assert.False(t, found)

	// Erasing an absent key twice is not an error.
	assert.NoError(t, store.Erase("non-existent"))
	assert.NoError(t, store.Erase("non-existent"))
}

func testInvalidKeys(t *testing.T, store db.KVStore) {
	require.NoError(t, store.Put("a", []byte("kept")))

	_, _, err := store.Get("a\x00b")
	assert.ErrorIs(t, err, db.ErrInvalidKey)
	assert.ErrorIs(t, store.Put("a\x00", []byte("x")), db.ErrInvalidKey)
	assert.ErrorIs(t, store.Erase("a\x00"), db.ErrInvalidKey)

	// Nothing was truncated to "a".
	value, found, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("kept"), value)
}

func testScenario(t *testing.T, store db.KVStore) {
	_, found, err := store.Get("a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put("a", []byte{1}))
	value, found, err := store.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{1}, value)

	require.NoError(t, store.Put("a", []byte{2}))
	value, found, err = store.Get("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{2}, value)

	require.NoError(t, store.Erase("a"))
	_, found, err = store.Get("a")
	require.NoError(t, err)
	assert.False(t, found)
}

func testStoreClosure(t *testing.T, store db.KVStore) {
	err := store.Close()
	require.NoError(t, err)

	// Test operations after close
	_, _, err = store.Get("key")
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Put("key", []byte("value"))
	assert.ErrorIs(t, err, db.ErrClosed)

	err = store.Erase("key")
	assert.ErrorIs(t, err, db.ErrClosed)

	// Double close should not error
	err = store.Close()
	assert.NoError(t, err)
}

// Keys generates keys without NUL bytes.
func Keys() *rapid.Generator[string] {
	return rapid.StringMatching(`[a-zA-Z0-9 _./:-]{1,24}`)
}

// Values generates arbitrary byte values, NUL bytes included.
func Values() *rapid.Generator[[]byte] {
	return rapid.SliceOfN(rapid.Byte(), 0, 256)
}

// CheckRoundTrip checks that every Put is returned byte for byte by Get.
func CheckRoundTrip(t *testing.T, store db.KVStore) {
	rapid.Check(t, func(rt *rapid.T) {
		key := Keys().Draw(rt, "key")
		value := Values().Draw(rt, "value")

		if err := store.Put(key, value); err != nil {
			rt.Fatalf("put %q: %v", key, err)
		}
		got, found, err := store.Get(key)
		if err != nil {
			rt.Fatalf("get %q: %v", key, err)
		}
		if !found {
			rt.Fatalf("get %q: not found after put", key)
		}
		if string(got) != string(value) {
			rt.Fatalf("get %q: got %x, want %x", key, got, value)
		}
	})
}

var modelKeys = []string{"a", "b", "c", "key/1", "key/2"}

// CheckModel drives store with random operations and compares each Get with
// an in-memory map.
func CheckModel(t *testing.T, store db.KVStore) {
	rapid.Check(t, func(rt *rapid.T) {
		// Small key space so operations collide.
		keys := rapid.SampledFrom(modelKeys)
		model := make(map[string][]byte)

		// Start each run from an empty key space.
		for _, k := range modelKeys {
			if err := store.Erase(k); err != nil {
				rt.Fatalf("erase %q: %v", k, err)
			}
		}

		rt.Repeat(map[string]func(*rapid.T){
			"put": func(rt *rapid.T) {
				k := keys.Draw(rt, "key")
				v := Values().Draw(rt, "value")
				if err := store.Put(k, v); err != nil {
					rt.Fatalf("put %q: %v", k, err)
				}
				model[k] = v
			},
			"erase": func(rt *rapid.T) {
				k := keys.Draw(rt, "key")
				if err := store.Erase(k); err != nil {
					rt.Fatalf("erase %q: %v", k, err)
				}
				delete(model, k)
			},
			"get": func(rt *rapid.T) {
				k := keys.Draw(rt, "key")
				got, found, err := store.Get(k)
				if err != nil {
					rt.Fatalf("get %q: %v", k, err)
				}
				want, ok := model[k]
				if found != ok {
					rt.Fatalf("get %q: found=%v, model has %v", k, found, ok)
				}
				if found && string(got) != string(want) {
					rt.Fatalf("get %q: got %x, want %x", k, got, want)
				}
			},
		})
	})
}
