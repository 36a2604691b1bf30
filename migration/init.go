package migration

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// Configuration is read from the "migration" genesis key.
type Configuration struct {
	Schemas []Schema `json:"schemas"`
}

// Initializer registers the schema versions declared in genesis.
type Initializer struct{}

var _ swapd.Initializer = Initializer{}

// FromGenesis stores every declared schema version. Versions of a package
// must be listed in ascending order, starting with 1.
func (Initializer) FromGenesis(opts swapd.Options, db swapd.KVStore) error {
	var conf Configuration
	if err := opts.ReadOptions("migration", &conf); err != nil {
		return err
	}
	bucket := NewSchemaBucket()
	for i := range conf.Schemas {
		s := conf.Schemas[i]
		if s.Metadata == nil {
			s.Metadata = &swapd.Metadata{Schema: 1}
		}
		if _, err := bucket.Create(db, &s); err != nil {
			return errors.Wrapf(err, "schema %q version %d", s.Pkg, s.Version)
		}
	}
	return nil
}
