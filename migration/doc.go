/*
Package migration versions the format of persisted models and of
transaction messages.

Every schema versioned payload carries swapd.Metadata as its first
attribute. The schema version is tracked per package, not per entity, and
is stored in the "schema" bucket. Genesis must register version 1 of every
package before any of its models can be read or written:

	"migration": {
	  "schemas": [
	    {"pkg": "cash", "version": 1},
	    {"pkg": "escrow", "version": 1}
	  ]
	}

A package integrates in three steps.

1. Register a migration function for every model and message, per version,
in the package init. Use NoModification when the format did not change:

	func init() {
		migration.MustRegister(1, &Escrow{}, migration.NoModification)
	}

2. Wrap the model bucket with NewModelBucket, or the plain bucket with
NewBucket, so that loaded entities are migrated to the current schema before
they are returned.

3. Wrap the handler registry with SchemaMigratingRegistry so that every
message is migrated before it reaches the handler.

A zero schema version of a model is read as "the current version". A nil
metadata is never valid.
*/
package migration
