package migration

import (
	"reflect"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// Migratable is implemented by both swapd.Msg and models stored through a
// migrating bucket.
type Migratable interface {
	GetMetadata() *swapd.Metadata
	Validate() error
}

// Migrator updates a payload from version N-1 to the version it was
// registered for.
type Migrator func(db swapd.ReadOnlyKVStore, payload Migratable) error

// NoModification is a Migrator for a version in which the payload format
// did not change.
func NoModification(swapd.ReadOnlyKVStore, Migratable) error {
	return nil
}

type register struct {
	migrators map[payloadVersion]Migrator
	// known tracks payload types with at least one registered version.
	known map[reflect.Type]struct{}
}

func newRegister() *register {
	return &register{
		migrators: make(map[payloadVersion]Migrator),
		known:     make(map[reflect.Type]struct{}),
	}
}

// payloadVersion references a message or a model at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func structType(payload Migratable) (reflect.Type, error) {
	tp := reflect.TypeOf(payload)
	for tp != nil && tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp == nil || tp.Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "only struct can be migrated, got %T", payload)
	}
	return tp, nil
}

func (r *register) MustRegister(version uint32, payload Migratable, fn Migrator) {
	if err := r.Register(version, payload, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(version uint32, payload Migratable, fn Migrator) error {
	if version == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "schema version must be greater than zero")
	}
	tp, err := structType(payload)
	if err != nil {
		return err
	}
	pv := payloadVersion{payload: tp, version: version}
	if _, ok := r.migrators[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), version)
	}
	r.migrators[pv] = fn
	r.known[tp] = struct{}{}
	return nil
}

// Apply migrates the payload in place, one version at a time, up to given
// version. The payload is validated once it is in the final format.
func (r *register) Apply(db swapd.ReadOnlyKVStore, payload Migratable, migrateTo uint32) error {
	tp, err := structType(payload)
	if err != nil {
		return err
	}
	if _, ok := r.known[tp]; !ok {
		return errors.Wrapf(errors.ErrSchema, "%s.%s is not schema versioned", tp.PkgPath(), tp.Name())
	}
	meta := payload.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata is nil", payload)
	}
	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.migrators[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, payload); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}
	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is the process wide register. Packages fill it from their init
// functions.
var reg = newRegister()

// MustRegister registers a migration of given payload type to given schema
// version. It panics on a duplicated registration.
func MustRegister(version uint32, payload Migratable, fn Migrator) {
	reg.MustRegister(version, payload, fn)
}

// migrate brings a payload to the current schema of the package. A zero
// schema version is set to the current version without running any
// migration.
func migrate(r *register, schema *SchemaBucket, packageName string, db swapd.ReadOnlyKVStore, value interface{}) error {
	m, ok := value.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrInvalidModel, "%T cannot be migrated", value)
	}
	current, err := schema.CurrentSchema(db, packageName)
	if err != nil {
		return errors.Wrapf(err, "current schema version of package %q", packageName)
	}
	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata is nil", m)
	}
	if meta.Schema == 0 {
		meta.Schema = current
		return nil
	}
	if meta.Schema > current {
		return errors.Wrapf(errors.ErrSchema, "schema %d is higher than %d", meta.Schema, current)
	}
	if err := r.Apply(db, m, current); err != nil {
		return errors.Wrap(err, "schema migration")
	}
	return nil
}
