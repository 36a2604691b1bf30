package app

import (
	"bytes"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore exposes the abci.Query interface of an application as a
// ReadOnlyKVStore. Keys are the full database keys, bucket prefix
// included, so any orm bucket can read through it.
type ABCIStore struct {
	app abci.Application
}

var _ swapd.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading the committed state of given
// application.
func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	switch len(value.Results) {
	case 0:
		return nil, nil
	case 1:
		return value.Results[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d results for a single key", len(value.Results))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator does a range iteration over the store. The range is loaded
// with a single prefix query, so the requested range must be a prefix
// range: end must be the first key after all keys starting with start.
func (a *ABCIStore) Iterator(start, end []byte) (swapd.Iterator, error) {
	models, err := a.prefix(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is like Iterator, but the models are returned in
// descending key order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (swapd.Iterator, error) {
	models, err := a.prefix(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefix(start, end []byte) ([]swapd.Model, error) {
	if _, want := orm.PrefixRange(start); !bytes.Equal(want, end) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "only prefix ranges are supported")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?" + swapd.PrefixQueryMod,
		Data: start,
	})
	if query.Code != 0 {
		return nil, errors.ABCIError(query.Code, query.Log)
	}
	return toModels(query.Key, query.Value)
}

func toModels(keys, values []byte) ([]swapd.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
