package migration

import (
	"encoding/binary"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
)

// BucketName is where the schema versions are stored.
const BucketName = "schema"

// maxSchemaVersion bounds the lookup of the current version.
const maxSchemaVersion = 10000

var _ orm.CloneableData = (*Schema)(nil)

func init() {
	MustRegister(1, &Schema{}, NoModification)
}

func (s *Schema) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if s.Version < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "version must be greater than zero")
	}
	if s.Pkg == "" {
		return errors.Wrap(errors.ErrInvalidModel, "pkg is required")
	}
	return nil
}

func (s *Schema) Copy() orm.CloneableData {
	return &Schema{
		Metadata: s.Metadata.Copy(),
		Pkg:      s.Pkg,
		Version:  s.Version,
	}
}

// schemaID returns a deterministic ID of a schema version. IDs of the same
// package sort from the lowest to the highest version.
func schemaID(pkg string, version uint32) []byte {
	raw := make([]byte, len(pkg)+4)
	copy(raw, pkg)
	binary.BigEndian.PutUint32(raw[len(pkg):], version)
	return raw
}

// SchemaBucket stores schema versions. It is a plain orm.Bucket because it
// cannot migrate its own entities.
type SchemaBucket struct {
	orm.Bucket
}

// NewSchemaBucket returns the bucket holding schema versions of all
// packages.
func NewSchemaBucket() *SchemaBucket {
	return &SchemaBucket{
		Bucket: orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Schema{})),
	}
}

// CurrentSchema returns the current schema version of given package. It
// returns ErrNotFound if the package was never initialized.
func (b *SchemaBucket) CurrentSchema(db swapd.ReadOnlyKVStore, packageName string) (uint32, error) {
	for ver := uint32(1); ver < maxSchemaVersion; ver++ {
		ok, err := b.Bucket.Has(db, schemaID(packageName, ver))
		if err != nil {
			return 0, errors.Wrap(err, "bucket has")
		}
		if ok {
			continue
		}
		if ver == 1 {
			return 0, errors.Wrapf(errors.ErrNotFound, "package %q not initialized", packageName)
		}
		return ver - 1, nil
	}
	return 0, errors.Wrap(errors.ErrInvalidState, "version too high")
}

// Create stores the next schema version of a package. Versions must be
// registered one after another, starting with 1.
func (b *SchemaBucket) Create(db swapd.KVStore, s *Schema) (orm.Object, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	ver, err := b.CurrentSchema(db, s.Pkg)
	switch {
	case errors.ErrNotFound.Is(err):
		ver = 0
	case err != nil:
		return nil, errors.Wrap(err, "current schema")
	}
	if ver+1 != s.Version {
		return nil, errors.Wrapf(errors.ErrDuplicate, "previous schema of %q is %d", s.Pkg, ver)
	}
	obj := orm.NewSimpleObj(schemaID(s.Pkg, s.Version), s)
	return obj, b.Bucket.Save(db, obj)
}

// MustInitPkg registers schema version 1 for given packages. Packages that
// are already initialized are left untouched.
func MustInitPkg(db swapd.KVStore, packageNames ...string) {
	for _, name := range packageNames {
		_, err := NewSchemaBucket().Create(db, &Schema{
			Metadata: &swapd.Metadata{Schema: 1},
			Pkg:      name,
			Version:  1,
		})
		if err != nil && !errors.ErrDuplicate.Is(err) {
			panic(errors.Wrap(err, name))
		}
	}
}

// RegisterQuery exposes the schema versions under "/schemas".
func RegisterQuery(qr swapd.QueryRouter) {
	NewSchemaBucket().Register("schemas", qr)
}
