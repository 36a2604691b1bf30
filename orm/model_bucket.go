package orm

import (
	"reflect"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity,
	// ErrInvalidType is returned.
	One(db swapd.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given primary key exists.
	Has(db swapd.ReadOnlyKVStore, key []byte) (bool, error)

	// ByIndex returns all models referenced by the named index under given
	// value. Result is loaded into destination that must be a pointer to
	// a slice of models.
	ByIndex(db swapd.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) error

	// Put saves given model in the database, overwriting any previous
	// state.
	Put(db swapd.KVStore, key []byte, m Model) error

	// Insert saves given model in the database. It fails with
	// ErrDuplicate if an entity with given key already exists.
	Insert(db swapd.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db swapd.KVStore, key []byte) error

	// Register registers this bucket and its indexes in the query router.
	Register(name string, r swapd.QueryRouter)
}

// ModelBucketOption configures a model bucket.
type ModelBucketOption func(*modelBucket)

// WithIndex configures the model bucket to maintain an index.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// NewModelBucket returns a ModelBucket instance storing entities of the same
// type as given model.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))
	mb := &modelBucket{
		b:     b,
		model: reflect.TypeOf(m),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) Register(name string, r swapd.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db swapd.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %T", res, dest)
	}

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db swapd.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) ByIndex(db swapd.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) error {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return err
	}

	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(errors.ErrInvalidType, "destination must be a pointer to slice, got %T", dest)
	}
	slice := ptr.Elem()
	elem := slice.Type().Elem()
	asPtr := elem.Kind() == reflect.Ptr

	for _, obj := range objs {
		val := reflect.ValueOf(obj.Value())
		if !val.Type().AssignableTo(mb.model) {
			return errors.Wrapf(errors.ErrInvalidType, "%T is not %s", obj.Value(), mb.model)
		}
		if asPtr {
			if !val.Type().AssignableTo(elem) {
				return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %s", obj.Value(), elem)
			}
			slice = reflect.Append(slice, val)
		} else {
			if !val.Elem().Type().AssignableTo(elem) {
				return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %s", obj.Value(), elem)
			}
			slice = reflect.Append(slice, val.Elem())
		}
	}
	ptr.Elem().Set(slice)
	return nil
}

func (mb *modelBucket) Put(db swapd.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if t := reflect.TypeOf(m); t != mb.model {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot store %s in %s bucket", t, mb.b.Name())
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Insert(db swapd.KVStore, key []byte, m Model) error {
	exists, err := mb.b.Has(db, key)
	if err != nil {
		return errors.Wrap(err, "cannot check existence")
	}
	if exists {
		return errors.Wrapf(errors.ErrDuplicate, "%s entity %X", mb.b.Name(), key)
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db swapd.KVStore, key []byte) error {
	exists, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "%s entity %X", mb.b.Name(), key)
	}
	return mb.b.Delete(db, key)
}

var _ ModelBucket = (*modelBucket)(nil)
