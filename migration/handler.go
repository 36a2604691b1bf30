package migration

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// SchemaMigratingHandler returns a handler that brings every message to the
// current schema of the package before passing it to h. Messages that
// cannot be migrated are rejected.
func SchemaMigratingHandler(packageName string, h swapd.Handler) swapd.Handler {
	return &schemaMigratingHandler{
		handler:     h,
		packageName: packageName,
		schema:      NewSchemaBucket(),
		migrations:  reg,
	}
}

type schemaMigratingHandler struct {
	handler     swapd.Handler
	packageName string
	schema      *SchemaBucket
	migrations  *register
}

func (h *schemaMigratingHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Check(ctx, db, tx)
}

func (h *schemaMigratingHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	if err := h.migrate(db, tx); err != nil {
		return nil, errors.Wrap(err, "migration")
	}
	return h.handler.Deliver(ctx, db, tx)
}

// migrate updates the message held by the transaction in place.
func (h *schemaMigratingHandler) migrate(db swapd.ReadOnlyKVStore, tx swapd.Tx) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	if _, ok := msg.(Migratable); !ok {
		return errors.Wrapf(errors.ErrInvalidMsg, "%T cannot be migrated", msg)
	}
	return migrate(h.migrations, h.schema, h.packageName, db, msg)
}

// SchemaMigratingRegistry returns a registry that wraps every registered
// handler with SchemaMigratingHandler.
func SchemaMigratingRegistry(packageName string, r swapd.Registry) swapd.Registry {
	return &schemaMigratingRegistry{
		packageName: packageName,
		reg:         r,
	}
}

type schemaMigratingRegistry struct {
	packageName string
	reg         swapd.Registry
}

func (r *schemaMigratingRegistry) Handle(path string, h swapd.Handler) {
	r.reg.Handle(path, SchemaMigratingHandler(r.packageName, h))
}
