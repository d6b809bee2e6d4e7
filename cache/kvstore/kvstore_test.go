package kvstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudranil/techstore/cache/kvstore"
)

// every backend must behave the same through the Store interface.
func runStoreSuite(t *testing.T, store kvstore.Store) {
	t.Helper()

	// absent key
	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	// set / get round trip
	require.NoError(t, store.Set("ns:a", "1"))
	v, ok, err := store.Get("ns:a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", v)

	// overwrite
	require.NoError(t, store.Set("ns:a", "2"))
	v, _, _ = store.Get("ns:a")
	assert.Equal(t, "2", v)

	// prefix listing
	require.NoError(t, store.Set("ns:b", "3"))
	require.NoError(t, store.Set("other:c", "4"))
	keys, err := store.Keys("ns:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ns:a", "ns:b"}, keys)

	// delete, including a second delete of the same key
	require.NoError(t, store.Delete("ns:a"))
	require.NoError(t, store.Delete("ns:a"))
	_, ok, err = store.Get("ns:a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, kvstore.NewMemory())
}

func TestFileStore(t *testing.T) {
	store, err := kvstore.NewFile(t.TempDir())
	require.NoError(t, err)
	runStoreSuite(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := kvstore.NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("k/with:odd chars", "persisted"))

	second, err := kvstore.NewFile(dir)
	require.NoError(t, err)
	v, ok, err := second.Get("k/with:odd chars")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", v)

	keys, err := second.Keys("")
	require.NoError(t, err)
	assert.Equal(t, []string{"k/with:odd chars"}, keys)
}

func TestSQLiteStore(t *testing.T) {
	store, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	runStoreSuite(t, store)
}

func TestSQLiteKeysEscapesLikeMetacharacters(t *testing.T) {
	store, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("a%b:1", "1"))
	require.NoError(t, store.Set("axb:2", "2"))

	keys, err := store.Keys("a%b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a%b:1"}, keys)
}
