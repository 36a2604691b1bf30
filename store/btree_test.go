package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeMemStore() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(makeMemStore).GetSet(t)
}

func TestBTreeCacheConflicts(t *testing.T) {
	NewTestSuite(makeMemStore).CacheConflicts(t)
}

func TestBTreeCacheFuzzIterator(t *testing.T) {
	NewTestSuite(makeMemStore).FuzzIterator(t)
}

func TestBTreeCacheIteratorWithConflicts(t *testing.T) {
	NewTestSuite(makeMemStore).IteratorWithConflicts(t)
}

func TestBTreeCacheWrapOverEmptyStore(t *testing.T) {
	devnull := EmptyKVStore{}
	base := NewBTreeCacheWrap(devnull, devnull.NewBatch(), nil)

	k, v := []byte("french"), []byte("fry")
	require.NoError(t, base.Set(k, v))
	got, err := base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	// writing to a store that drops everything loses the data
	require.NoError(t, base.Write())
	got, err = devnull.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNestedCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("a"), []byte("1")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("b"), []byte("2")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Delete([]byte("a")))
	require.NoError(t, inner.Set([]byte("c"), []byte("3")))
	inner.Discard()

	s := NewTestSuite(makeMemStore)
	s.AssertGetHas(t, outer, []byte("a"), []byte("1"), true)
	s.AssertGetHas(t, outer, []byte("c"), nil, false)

	require.NoError(t, outer.Write())
	s.AssertGetHas(t, base, []byte("b"), []byte("2"), true)
}
