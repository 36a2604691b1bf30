package utils

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ swapd.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Checker) (*swapd.CheckResult, error) {
	var res *swapd.CheckResult
	err := savepoint(s.onCheck, db, func(db swapd.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

// Deliver will optionally set a checkpoint. A message failing halfway, for
// example a take whose taker cannot pay, leaves no trace in the state.
func (s Savepoint) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx, next swapd.Deliverer) (*swapd.DeliverResult, error) {
	var res *swapd.DeliverResult
	err := savepoint(s.onDeliver, db, func(db swapd.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// savepoint runs fn on a cache wrap of db when enabled and the store
// supports it. Otherwise fn operates directly on db.
func savepoint(enabled bool, db swapd.KVStore, fn func(swapd.KVStore) error) error {
	cstore, ok := db.(swapd.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
