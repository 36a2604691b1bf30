package orm

import (
	"testing"

	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelBucket(t *testing.T) {
	db := store.MemStore()

	b := NewModelBucket("cnts", &Counter{})

	require.NoError(t, b.Put(db, []byte("c1"), &Counter{Count: 1}))

	var c1 Counter
	require.NoError(t, b.One(db, []byte("c1"), &c1))
	assert.Equal(t, int64(1), c1.Count)

	has, err := b.Has(db, []byte("c1"))
	require.NoError(t, err)
	assert.True(t, has)

	var other Other
	err = b.One(db, []byte("c1"), &other)
	assert.True(t, errors.ErrInvalidType.Is(err), "%+v", err)

	err = b.Put(db, []byte("o1"), &Other{Name: "x"})
	assert.True(t, errors.ErrInvalidModel.Is(err), "%+v", err)

	err = b.Put(db, nil, &Counter{})
	assert.True(t, errors.ErrEmpty.Is(err), "%+v", err)

	require.NoError(t, b.Delete(db, []byte("c1")))
	err = b.Delete(db, []byte("unknown"))
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
	err = b.One(db, []byte("c1"), &c1)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestModelBucketInsert(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts", &Counter{})

	require.NoError(t, b.Insert(db, []byte("c1"), &Counter{Count: 1}))
	err := b.Insert(db, []byte("c1"), &Counter{Count: 2})
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	// The first state is kept.
	var c Counter
	require.NoError(t, b.One(db, []byte("c1"), &c))
	assert.Equal(t, int64(1), c.Count)

	err = b.Insert(db, []byte("c2"), &Counter{Count: -1})
	assert.True(t, errors.ErrInvalidState.Is(err), "%+v", err)
}

func TestModelBucketByIndex(t *testing.T) {
	alice := []byte("alice")
	cases := map[string]struct {
		IndexName string
		QueryKey  []byte
		Dest      interface{}
		WantErr   *errors.Error
		WantRes   interface{}
	}{
		"find none": {
			IndexName: "owner",
			QueryKey:  []byte("nobody"),
			Dest:      &[]Counter{},
			WantRes:   &[]Counter{},
		},
		"find many into values": {
			IndexName: "owner",
			QueryKey:  alice,
			Dest:      &[]Counter{},
			WantRes: &[]Counter{
				{Count: 1, Owner: alice},
				{Count: 2, Owner: alice},
			},
		},
		"find many into pointers": {
			IndexName: "owner",
			QueryKey:  alice,
			Dest:      &[]*Counter{},
			WantRes: &[]*Counter{
				{Count: 1, Owner: alice},
				{Count: 2, Owner: alice},
			},
		},
		"unknown index": {
			IndexName: "xyz",
			QueryKey:  alice,
			Dest:      &[]Counter{},
			WantErr:   ErrInvalidIndex,
			WantRes:   &[]Counter{},
		},
		"destination is not a slice pointer": {
			IndexName: "owner",
			QueryKey:  alice,
			Dest:      []Counter{},
			WantErr:   errors.ErrInvalidType,
			WantRes:   []Counter{},
		},
		"wrong destination type": {
			IndexName: "owner",
			QueryKey:  alice,
			Dest:      &[]Other{},
			WantErr:   errors.ErrInvalidType,
			WantRes:   &[]Other{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewModelBucket("cnts", &Counter{},
				WithIndex("owner", counterByOwner, false))

			require.NoError(t, b.Put(db, []byte("c1"), &Counter{Count: 1, Owner: alice}))
			require.NoError(t, b.Put(db, []byte("c2"), &Counter{Count: 2, Owner: alice}))
			require.NoError(t, b.Put(db, []byte("c3"), &Counter{Count: 3, Owner: []byte("bob")}))

			err := b.ByIndex(db, tc.IndexName, tc.QueryKey, tc.Dest)
			if tc.WantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.WantErr.Is(err), "unexpected error: %+v", err)
			}
			assert.Equal(t, tc.WantRes, tc.Dest)
		})
	}
}
