package migration

import (
	"reflect"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
)

// Bucket is an orm.Bucket that requires schema versioning of its objects.
// Loaded objects are migrated to the current schema before they are
// returned and saved objects are migrated before they are written.
//
// Queries are served by the embedded orm.Bucket and return the data as it
// is stored.
type Bucket struct {
	orm.Bucket
	packageName string
	schema      *SchemaBucket
	migrations  *register
}

// NewBucket returns a schema aware version of given bucket. Package name
// is used to look up the current schema version.
func NewBucket(packageName string, b orm.Bucket) Bucket {
	return Bucket{
		Bucket:      b,
		packageName: packageName,
		schema:      NewSchemaBucket(),
		migrations:  reg,
	}
}

func (b Bucket) Get(db swapd.ReadOnlyKVStore, key []byte) (orm.Object, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil || obj == nil {
		return obj, err
	}
	if err := migrate(b.migrations, b.schema, b.packageName, db, obj.Value()); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return obj, nil
}

func (b Bucket) Save(db swapd.KVStore, obj orm.Object) error {
	if err := migrate(b.migrations, b.schema, b.packageName, db, obj.Value()); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return b.Bucket.Save(db, obj)
}

// ModelBucket is an orm.ModelBucket with the same guarantees as Bucket.
type ModelBucket struct {
	orm.ModelBucket
	packageName string
	schema      *SchemaBucket
	migrations  *register
}

var _ orm.ModelBucket = (*ModelBucket)(nil)

// NewModelBucket returns a schema aware version of given model bucket.
func NewModelBucket(packageName string, b orm.ModelBucket) *ModelBucket {
	return &ModelBucket{
		ModelBucket: b,
		packageName: packageName,
		schema:      NewSchemaBucket(),
		migrations:  reg,
	}
}

func (m *ModelBucket) One(db swapd.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := m.ModelBucket.One(db, key, dest); err != nil {
		return err
	}
	if err := m.migrate(db, dest); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

func (m *ModelBucket) ByIndex(db swapd.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) error {
	if err := m.ModelBucket.ByIndex(db, indexName, key, dest); err != nil {
		return err
	}
	// The destination type was already checked by the wrapped bucket.
	// Elements are either models or values that a model points to.
	slice := reflect.ValueOf(dest).Elem()
	for i := 0; i < slice.Len(); i++ {
		item := slice.Index(i)
		model, ok := item.Interface().(orm.Model)
		if !ok {
			model = item.Addr().Interface().(orm.Model)
		}
		if err := m.migrate(db, model); err != nil {
			return errors.Wrapf(err, "migrate %d element", i)
		}
	}
	return nil
}

func (m *ModelBucket) Put(db swapd.KVStore, key []byte, model orm.Model) error {
	if err := m.migrate(db, model); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return m.ModelBucket.Put(db, key, model)
}

func (m *ModelBucket) Insert(db swapd.KVStore, key []byte, model orm.Model) error {
	if err := m.migrate(db, model); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return m.ModelBucket.Insert(db, key, model)
}

func (m *ModelBucket) migrate(db swapd.ReadOnlyKVStore, model orm.Model) error {
	return migrate(m.migrations, m.schema, m.packageName, db, model)
}
