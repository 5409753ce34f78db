package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreBasic(t *testing.T) {
	db := MemStore()

	k, v := []byte("hello"), []byte("world")
	assert.False(t, db.Has(k))
	assert.Nil(t, db.Get(k))

	db.Set(k, v)
	assert.True(t, db.Has(k))
	assert.Equal(t, v, db.Get(k))

	db.Delete(k)
	assert.False(t, db.Has(k))
	assert.Nil(t, db.Get(k))
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	db.Set([]byte("a"), []byte("1"))

	// discarded writes leave no trace
	cache := db.CacheWrap()
	cache.Set([]byte("b"), []byte("2"))
	cache.Delete([]byte("a"))
	assert.False(t, cache.Has([]byte("a")))
	assert.True(t, cache.Has([]byte("b")))
	cache.Discard()
	assert.True(t, db.Has([]byte("a")))
	assert.False(t, db.Has([]byte("b")))

	// written changes all apply
	cache = db.CacheWrap()
	cache.Set([]byte("b"), []byte("2"))
	cache.Delete([]byte("a"))
	cache.Write()
	assert.False(t, db.Has([]byte("a")))
	assert.Equal(t, []byte("2"), db.Get([]byte("b")))
}

func TestCacheWrapNested(t *testing.T) {
	db := MemStore()
	db.Set([]byte("k"), []byte("base"))

	outer := db.CacheWrap()
	outer.Set([]byte("k"), []byte("outer"))

	inner := outer.CacheWrap()
	inner.Set([]byte("k"), []byte("inner"))
	require.Equal(t, []byte("inner"), inner.Get([]byte("k")))
	inner.Discard()

	require.Equal(t, []byte("outer"), outer.Get([]byte("k")))
	outer.Write()
	require.Equal(t, []byte("outer"), db.Get([]byte("k")))
}

func TestIteratorMergesCacheAndParent(t *testing.T) {
	db := MemStore()
	db.Set([]byte("a"), []byte("1"))
	db.Set([]byte("c"), []byte("3"))
	db.Set([]byte("d"), []byte("4"))

	cache := db.CacheWrap()
	cache.Set([]byte("b"), []byte("2"))  // new key between existing ones
	cache.Set([]byte("c"), []byte("33")) // overwrite
	cache.Delete([]byte("d"))            // shadow delete

	var keys, values []string
	for it := cache.Iterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
		values = append(values, string(it.Value()))
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, []string{"1", "2", "33"}, values)
}

func TestReverseIterator(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "b", "c"} {
		db.Set([]byte(k), []byte(k))
	}
	cache := db.CacheWrap()
	cache.Set([]byte("ab"), []byte("ab"))

	var keys []string
	for it := cache.ReverseIterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"c", "b", "ab", "a"}, keys)
}

func TestIteratorRange(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"1", "2", "3", "4", "5"} {
		db.Set([]byte(k), []byte(k))
	}

	var keys []string
	for it := db.Iterator([]byte("2"), []byte("4")); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	// end is exclusive
	assert.Equal(t, []string{"2", "3"}, keys)
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	batch := NewNonAtomicBatch(db)
	batch.Set([]byte("x"), []byte("1"))
	batch.Delete([]byte("x"))
	batch.Set([]byte("y"), []byte("2"))

	// nothing applied before Write
	assert.False(t, db.Has([]byte("x")))
	assert.False(t, db.Has([]byte("y")))

	batch.Write()
	assert.False(t, db.Has([]byte("x")))
	assert.True(t, bytes.Equal([]byte("2"), db.Get([]byte("y"))))
}

func TestNilKeyPanics(t *testing.T) {
	db := MemStore()
	assert.Panics(t, func() { db.Set(nil, []byte("v")) })
	assert.Panics(t, func() { db.Get(nil) })
}
