package store

import (
	"math/rand"
	"testing"

	"github.com/iov-one/swapd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	models := randomModels(rand.New(rand.NewSource(3)), size)

	// make sure proper iteration works
	i := 0
	for iter := NewSliceIterator(models); iter.Valid(); i++ {
		if i >= size {
			t.Fatalf("iterator step greater than the size: %d >= %d", i, size)
		}
		assert.Equal(t, models[i].Key, iter.Key())
		assert.Equal(t, models[i].Value, iter.Value())
		require.NoError(t, iter.Next())
	}
	assert.Equal(t, size, i)

	it := NewSliceIterator(models)
	if !it.Valid() {
		t.Fatal("iterator expected to be valid")
	}
	it.Close()
	if it.Valid() {
		t.Fatal("closed iterator must be invalid")
	}
	err := it.Next()
	if !errors.ErrDatabase.Is(err) {
		t.Fatalf("calling Next on invalid iterator must return error, got %v", err)
	}
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("gone"), []byte("soon")))

	b := NewNonAtomicBatch(db)
	require.NoError(t, b.Set([]byte("one"), []byte("1")))
	require.NoError(t, b.Delete([]byte("gone")))
	assert.Len(t, b.ShowOps(), 2)

	// nothing is visible before the write
	has, err := db.Has([]byte("one"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, b.Write())
	assert.Empty(t, b.ShowOps())

	s := NewTestSuite(makeMemStore)
	s.AssertGetHas(t, db, []byte("one"), []byte("1"), true)
	s.AssertGetHas(t, db, []byte("gone"), nil, false)
}

func TestOpApplyUnknownKind(t *testing.T) {
	err := Op{}.Apply(MemStore())
	assert.True(t, errors.ErrDatabase.Is(err))
}
