package orm

import (
	"bytes"
	"math"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// Index maintains a secondary index over the entities of a bucket.
type Index interface {
	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db swapd.KVStore, prev Object, save Object) error

	// Keys returns all entity keys that were indexed under given value.
	Keys(db swapd.ReadOnlyKVStore, value []byte) ([][]byte, error)

	// Query handles queries from the QueryRouter.
	Query(db swapd.ReadOnlyKVStore, mod string, data []byte) ([]swapd.Model, error)
}

const nativeIdxPrefix = "_x."

// Indexer calculates the secondary index key for a given object
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object
type MultiKeyIndexer func(Object) ([][]byte, error)

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		if err != nil {
			return nil, err
		}
		if key == nil {
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// NewNativeIndex returns an index implementation that is using a database
// native storage and query in order to maintain and provide access to an
// index. A unique index refuses to reference two entities with the same
// value.
func NewNativeIndex(name string, indexer MultiKeyIndexer, unique bool, dbKey func([]byte) []byte) Index {
	return &nativeIndex{
		name:    name,
		indexer: indexer,
		unique:  unique,
		dbKey:   dbKey,
	}
}

// nativeIndex is an index implementation that is using a database native
// storage and query in order to maintain and provide access to an index.
//
// Index key is in format:
//    <prefix>#<index name>#<value>#<entity id>
// where # is a serialization specific data, irrelevant for the
// algorithm. All entities indexed under a value are found by iterating
// over the range of keys sharing the <prefix>#<index name>#<value> part.
type nativeIndex struct {
	name    string
	indexer MultiKeyIndexer
	unique  bool
	// dbKey is a function that for given entity ID returns that entity
	// database key.
	dbKey func([]byte) []byte
}

func (ix *nativeIndex) Name() string {
	return ix.name
}

func (ix *nativeIndex) Update(db swapd.KVStore, prev Object, next Object) error {
	if next == nil && prev == nil {
		return errors.Wrap(errors.ErrInvalidInput, "update requires at least one non-nil object")
	}
	if next != nil && prev != nil {
		if !bytes.Equal(next.Key(), prev.Key()) {
			return errors.Wrap(errors.ErrInvalidState, "previous key is not the same as the new one")
		}
	}

	if prev != nil {
		values, err := ix.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), v, prev.Key()})
			if err != nil {
				return errors.Wrap(err, "build index key")
			}
			if err := db.Delete(idxKey); err != nil {
				return errors.Wrap(err, "db delete")
			}
		}
	}

	if next != nil {
		values, err := ix.indexer(next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			if ix.unique {
				keys, err := ix.Keys(db, v)
				if err != nil {
					return err
				}
				for _, k := range keys {
					if !bytes.Equal(k, next.Key()) {
						return errors.Wrapf(errors.ErrDuplicate, "index %s", ix.name)
					}
				}
			}
			idxKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), v, next.Key()})
			if err != nil {
				return errors.Wrap(err, "build index key")
			}
			if err := db.Set(idxKey, []byte{}); err != nil {
				return errors.Wrap(err, "db set")
			}
		}
	}
	return nil
}

func (ix *nativeIndex) Keys(db swapd.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	lookupKey, err := packNativeIdxKey([][]byte{[]byte(ix.name), value})
	if err != nil {
		return nil, errors.Wrap(err, "build index key")
	}

	start := lookupKey
	end := make([]byte, len(lookupKey)+1)
	copy(end, lookupKey)
	// MaxUint8 is not used by serializer so we can use it as the maximum
	// value guard.
	end[len(end)-1] = math.MaxUint8

	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() {
		chunks, err := unpackNativeIdxKey(it.Key())
		if err != nil {
			return nil, errors.Wrap(err, "unpack native index key")
		}
		// The value is a prefix of the lookup key, so a longer value
		// starting with the same bytes must be excluded.
		if len(chunks) == 3 && bytes.Equal(chunks[1], value) {
			keys = append(keys, chunks[2])
		}
		if err := it.Next(); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Query returns all entities indexed under the value given as data.
func (ix *nativeIndex) Query(db swapd.ReadOnlyKVStore, mod string, data []byte) ([]swapd.Model, error) {
	switch mod {
	case swapd.KeyQueryMod:
		keys, err := ix.Keys(db, data)
		if err != nil {
			return nil, err
		}
		models := make([]swapd.Model, 0, len(keys))
		for _, key := range keys {
			dbkey := ix.dbKey(key)
			value, err := db.Get(dbkey)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot get value for %q", key)
			}
			models = append(models, swapd.Pair(dbkey, value))
		}
		return models, nil
	default:
		return nil, errors.Wrap(errors.ErrHuman, "not implemented: "+mod)
	}
}

// packNativeIdxKey serialize a native index key from a set of values to a
// single key. This process can be reversed using unpackNativeIdxKey function.
//
// Native index key is a byte array. After the same for every native index
// prefix, a collection of bytes is serialized in order. Each element of the
// collection must be at most 254 bytes long.
//
// When serialized, each chunk is prefixed with its length, encoded as a uint8
// value. If a key is created from 3 chunks, "aaa", "" and "c", that key
// representation is:
//
//   _x.<3>aaa<0><1>c
//
// where <3>, <0> and <1> are that number values in bytes.
func packNativeIdxKey(chunks [][]byte) ([]byte, error) {
	var size int
	for _, b := range chunks {
		size += len(b) + 1
	}
	res := make([]byte, 0, size+len(nativeIdxPrefix))
	res = append(res, nativeIdxPrefix...)

	for _, b := range chunks {
		// MaxUint8 is reserved for the search purpose. MaxUint8 - 1 is
		// the greatest allowed length.
		if len(b) > math.MaxUint8-1 {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "no chunk can be bigger than %d bytes", math.MaxUint8-1)
		}
		res = append(res, uint8(len(b)))
		res = append(res, b...)
	}
	return res, nil
}

// unpackNativeIdxKey decodes native index key and extracts all chunks that
// compose that key.
func unpackNativeIdxKey(b []byte) ([][]byte, error) {
	if !bytes.HasPrefix(b, []byte(nativeIdxPrefix)) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "not a native index key")
	}
	b = b[len(nativeIdxPrefix):]
	res := make([][]byte, 0, 3)
	for len(b) > 0 {
		size := int(b[0])
		if len(b) < 1+size {
			return nil, errors.Wrap(errors.ErrInvalidInput, "malformed offset")
		}
		res = append(res, b[1:1+size])
		b = b[1+size:]
	}
	return res, nil
}
