package orm

import (
	"testing"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &Counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketNameCollision(t *testing.T) {
	const bucketName = "mybucket"
	var objkey = []byte("collision-key")

	o1 := NewSimpleObj(objkey, &Counter{Count: 1})
	b1 := NewBucket(bucketName, o1)

	o2 := NewSimpleObj(objkey, &Other{Name: "foobar"})
	b2 := NewBucket(bucketName, o2)

	db := store.MemStore()
	require.NoError(t, b1.Save(db, o1))

	// Buckets do not know about each other. Saving an object under the
	// same key overwrites and because there is no check of stored data,
	// this operation does not fail.
	require.NoError(t, b2.Save(db, o2))

	// Loading an object using the wrong bucket must fail because the
	// deserialization cannot happen.
	_, err := b1.Get(db, objkey)
	assert.True(t, errors.ErrInvalidState.Is(err), "%+v", err)
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	counter := &Counter{
		Count: -999, // Negative value is not valid.
	}
	o := NewSimpleObj([]byte("mykey"), counter)
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	err := b.Save(db, o)
	assert.True(t, errors.ErrInvalidState.Is(err), "invalid object must not save: %+v", err)

	err = b.Save(db, NewSimpleObj(nil, &Counter{}))
	assert.True(t, errors.ErrEmpty.Is(err), "missing key: %+v", err)
}

func TestBucketGetSaveDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))

	key := []byte("counter")
	obj, err := b.Get(db, key)
	require.NoError(t, err)
	assert.Nil(t, obj)

	// A zero value serializes to nothing and must still be found.
	require.NoError(t, b.Save(db, NewSimpleObj(key, &Counter{})))
	obj, err = b.Get(db, key)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, int64(0), obj.Value().(*Counter).Count)

	require.NoError(t, b.Save(db, NewSimpleObj(key, &Counter{Count: 848})))
	obj, err = b.Get(db, key)
	require.NoError(t, err)
	assert.Equal(t, key, obj.Key())
	assert.Equal(t, int64(848), obj.Value().(*Counter).Count)

	has, err := b.Has(db, key)
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, b.Delete(db, key))
	obj, err = b.Get(db, key)
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketDBKeyDoesNotAlias(t *testing.T) {
	b := NewBucket("abcd", NewSimpleObj(nil, &Counter{}))
	k1 := b.DBKey([]byte("ABC"))
	k2 := b.DBKey([]byte("LED"))
	assert.Equal(t, []byte("abcd:ABC"), k1)
	assert.Equal(t, []byte("abcd:LED"), k2)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{}))

	require.NoError(t, b.Save(db, NewSimpleObj([]byte("aa"), &Counter{Count: 1})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("ab"), &Counter{Count: 2})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("b"), &Counter{Count: 3})))

	res, err := b.Query(db, swapd.KeyQueryMod, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("cnts:ab"), res[0].Key)

	res, err = b.Query(db, swapd.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = b.Query(db, swapd.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("cnts:aa"), res[0].Key)
	assert.Equal(t, []byte("cnts:ab"), res[1].Key)

	res, err = b.Query(db, swapd.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 3)

	_, err = b.Query(db, "unknown", nil)
	assert.Error(t, err)
}

func TestBucketIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("owner", counterByOwner, false)

	alice, bob := []byte("alice"), []byte("bob")
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c1"), &Counter{Count: 1, Owner: alice})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c2"), &Counter{Count: 2, Owner: alice})))
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c3"), &Counter{Count: 3, Owner: bob})))
	// An owner that is a prefix of another must not match.
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c4"), &Counter{Count: 4, Owner: []byte("alicex")})))

	objs, err := b.GetIndexed(db, "owner", alice)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, []byte("c1"), objs[0].Key())
	assert.Equal(t, []byte("c2"), objs[1].Key())

	// Moving c2 to bob updates the index.
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c2"), &Counter{Count: 2, Owner: bob})))
	objs, err = b.GetIndexed(db, "owner", alice)
	require.NoError(t, err)
	require.Len(t, objs, 1)

	require.NoError(t, b.Delete(db, []byte("c3")))
	objs, err = b.GetIndexed(db, "owner", bob)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, []byte("c2"), objs[0].Key())

	_, err = b.GetIndexed(db, "unknown", bob)
	assert.True(t, ErrInvalidIndex.Is(err), "%+v", err)
}

func TestBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("owner", counterByOwner, true)

	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c1"), &Counter{Owner: []byte("alice")})))
	// Updating the same entity keeps the reference.
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c1"), &Counter{Count: 7, Owner: []byte("alice")})))

	err := b.Save(db, NewSimpleObj([]byte("c2"), &Counter{Owner: []byte("alice")}))
	assert.True(t, errors.ErrDuplicate.Is(err), "%+v", err)

	assert.Panics(t, func() {
		b.WithIndex("owner", counterByOwner, false)
	})
}

func TestBucketRegister(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, &Counter{})).
		WithIndex("owner", counterByOwner, false)
	qr := swapd.NewQueryRouter()
	b.Register("counters", qr)

	assert.Equal(t, []string{"/counters", "/counters/owner"}, qr.Paths())

	db := store.MemStore()
	require.NoError(t, b.Save(db, NewSimpleObj([]byte("c1"), &Counter{Owner: []byte("alice")})))
	res, err := qr.Handler("/counters/owner").Query(db, swapd.KeyQueryMod, []byte("alice"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("cnts:c1"), res[0].Key)
}

func TestNativeIndexKeyPacking(t *testing.T) {
	chunks := [][]byte{[]byte("aaa"), {}, []byte("c")}
	raw, err := packNativeIdxKey(chunks)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("_x."), 3, 'a', 'a', 'a', 0, 1, 'c'), raw)

	got, err := unpackNativeIdxKey(raw)
	require.NoError(t, err)
	assert.Equal(t, chunks, got)

	_, err = packNativeIdxKey([][]byte{make([]byte, 255)})
	assert.True(t, errors.ErrInvalidInput.Is(err))

	_, err = unpackNativeIdxKey([]byte("_x.\x05ab"))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}
