package sigs

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/x"
)

// RegisterRoutes registers the sequence bump handler.
func RegisterRoutes(r swapd.Registry, auth x.Authenticator) {
	r = migration.SchemaMigratingRegistry(packageName, r)
	r.Handle(pathBumpSequenceMsg, &bumpSequenceHandler{
		bucket: NewBucket(),
		auth:   auth,
	})
}

// bumpSequenceHandler moves the main signer's sequence forward so that
// transactions signed in advance with a lower sequence become invalid.
type bumpSequenceHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

func (h *bumpSequenceHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, err := h.bumped(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	user, err := h.bumped(ctx, db, tx)
	switch {
	case err != nil:
		return nil, err
	case user == nil:
		return &swapd.DeliverResult{}, nil
	}
	if err := h.bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &swapd.DeliverResult{}, nil
}

// bumped returns the signer record with its sequence moved forward. The
// signature check already consumed one sequence of this transaction, so
// an increment of one leaves nothing to write and bumped returns nil.
func (h *bumpSequenceHandler) bumped(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*UserData, error) {
	var msg BumpSequenceMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	user, err := loadUser(db, h.bucket, signer.Address())
	switch {
	case err != nil:
		return nil, err
	case user == nil:
		return nil, errors.Wrapf(errors.ErrNotFound, "no sequence for %s", signer.Address())
	}

	// The full increment, including the consumed sequence, must fit.
	if user.Sequence+int64(msg.Increment) < user.Sequence {
		return nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	if msg.Increment == 1 {
		return nil, nil
	}
	user.Sequence += int64(msg.Increment) - 1
	return user, nil
}
