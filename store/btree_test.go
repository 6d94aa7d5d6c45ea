package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreGetSetDelete(t *testing.T) {
	db := MemStore()

	val, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, db.Set([]byte("foo"), []byte("bar")))
	val, err = db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bar"), val)

	has, err := db.Has([]byte("foo"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, db.Delete([]byte("foo")))
	has, err = db.Has([]byte("foo"))
	require.NoError(t, err)
	assert.False(t, has)
	val, err = db.Get([]byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))
	require.NoError(t, db.Set([]byte("b"), []byte("2")))

	// Discarded changes are never visible in the parent.
	discarded := db.CacheWrap()
	require.NoError(t, discarded.Set([]byte("c"), []byte("3")))
	require.NoError(t, discarded.Delete([]byte("a")))
	val, err := discarded.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
	discarded.Discard()

	val, err = db.Get([]byte("c"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	// Written changes are applied to the parent.
	written := db.CacheWrap()
	require.NoError(t, written.Set([]byte("c"), []byte("3")))
	require.NoError(t, written.Delete([]byte("a")))
	require.NoError(t, written.Write())

	val, err = db.Get([]byte("c"))
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCacheWrapIterators(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"k1", "k2", "k3", "k5"} {
		require.NoError(t, db.Set([]byte(k), []byte("parent-"+k)))
	}

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("k4"), []byte("cached-k4")))
	require.NoError(t, cache.Set([]byte("k2"), []byte("cached-k2")))
	require.NoError(t, cache.Delete([]byte("k3")))
	require.NoError(t, cache.Set([]byte("z"), []byte("out of range")))

	it, err := cache.Iterator([]byte("k"), []byte("l"))
	require.NoError(t, err)
	got, err := ReadAll(it)
	require.NoError(t, err)
	want := []Model{
		Pair([]byte("k1"), []byte("parent-k1")),
		Pair([]byte("k2"), []byte("cached-k2")),
		Pair([]byte("k4"), []byte("cached-k4")),
		Pair([]byte("k5"), []byte("parent-k5")),
	}
	assert.Equal(t, want, got)

	rit, err := cache.ReverseIterator([]byte("k"), []byte("l"))
	require.NoError(t, err)
	rgot, err := ReadAll(rit)
	require.NoError(t, err)
	require.Len(t, rgot, 4)
	assert.Equal(t, []byte("k5"), rgot[0].Key)
	assert.Equal(t, []byte("k1"), rgot[3].Key)

	// Unbounded iteration includes everything.
	all, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	models, err := ReadAll(all)
	require.NoError(t, err)
	assert.Len(t, models, 5)
}
