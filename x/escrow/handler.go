package escrow

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/x"
	"github.com/iov-one/swapd/x/cash"
)

const (
	// pay escrow cost up-front
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 100
	refundEscrowCost int64 = 50
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Metrics may be nil.
func RegisterRoutes(r swapd.Registry, auth x.Authenticator, bank cash.Controller, metrics *Metrics) {
	r = migration.SchemaMigratingRegistry(packageName, r)
	ctrl := NewController(bank, NewBucket())

	r.Handle(pathMakeMsg, MakeHandler{auth: auth, ctrl: ctrl, metrics: metrics})
	r.Handle(pathTakeMsg, TakeHandler{auth: auth, ctrl: ctrl, metrics: metrics})
	r.Handle(pathRefundMsg, RefundHandler{auth: auth, ctrl: ctrl, metrics: metrics})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr swapd.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// MakeHandler opens a new escrow.
type MakeHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ swapd.Handler = MakeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h MakeHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver stores the escrow and moves the deposit from the maker to the
// holding wallet. The escrow address is returned as the result data.
func (h MakeHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	msg, maker, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	d, err := Derive(maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	escrow := &Escrow{
		Metadata:      &swapd.Metadata{Schema: 1},
		Seed:          msg.Seed,
		Maker:         maker,
		AssetA:        msg.AssetA,
		AssetB:        msg.AssetB,
		ReceiveAmount: msg.ReceiveAmount,
		Bump:          uint32(d.Bump),
	}
	err = atomically(db, func(db swapd.KVStore) error {
		return h.ctrl.Open(db, escrow, d, msg.Deposit())
	})
	if err != nil {
		return nil, err
	}
	h.metrics.escrowOpened()
	return &swapd.DeliverResult{Data: d.Record}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeHandler) validate(ctx swapd.Context, tx swapd.Tx) (*MakeMsg, swapd.Address, error) {
	var msg MakeMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	maker := msg.Maker
	if len(maker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing maker signature")
		}
		maker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}
	return &msg, maker, nil
}

// TakeHandler completes an escrow. The taker pays the maker in asset B
// and receives the locked asset A.
type TakeHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ swapd.Handler = TakeHandler{}

// Check verifies the escrow is open and the taker signed the transaction.
func (h TakeHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver settles both legs of the trade and closes the escrow. Either
// everything is applied or nothing is.
func (h TakeHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	t, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ctx = withCustody(ctx, t.d.Authority)
	err = atomically(db, func(db swapd.KVStore) error {
		if err := h.ctrl.bank.MoveCoins(db, t.taker, t.escrow.Maker, t.escrow.Receive()); err != nil {
			return errors.Wrap(err, "cannot pay the maker")
		}
		if _, err := h.ctrl.Release(ctx, db, t.escrow, t.d, t.dest); err != nil {
			return err
		}
		return h.ctrl.Close(ctx, db, t.escrow, t.d)
	})
	if err != nil {
		return nil, err
	}
	h.metrics.escrowTaken()
	return &swapd.DeliverResult{Data: t.d.Record}, nil
}

// take is a validated take request with all optional addresses resolved.
type take struct {
	escrow *Escrow
	d      *Derivation
	taker  swapd.Address
	dest   swapd.Address
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeHandler) validate(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*take, error) {
	var msg TakeMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, d, err := h.ctrl.Load(db, msg.EscrowID, msg.Vault)
	if err != nil {
		return nil, err
	}
	taker := msg.Taker
	if len(taker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "missing taker signature")
		}
		taker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, taker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}
	dest := msg.Destination
	if len(dest) == 0 {
		dest = taker
	}
	// Releasing into the holding wallet would close the escrow and leave
	// the deposit locked forever.
	if dest.Equals(d.Holding) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "destination is the holding wallet")
	}
	return &take{escrow: escrow, d: d, taker: taker, dest: dest}, nil
}

// RefundHandler cancels an escrow and returns the locked coins to the
// maker.
type RefundHandler struct {
	auth    x.Authenticator
	ctrl    *Controller
	metrics *Metrics
}

var _ swapd.Handler = RefundHandler{}

// Check verifies the escrow is open and the maker signed the transaction.
func (h RefundHandler) Check(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &swapd.CheckResult{GasAllocated: refundEscrowCost}, nil
}

// Deliver returns the full holding balance to the maker and closes the
// escrow.
func (h RefundHandler) Deliver(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*swapd.DeliverResult, error) {
	escrow, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	ctx = withCustody(ctx, d.Authority)
	err = atomically(db, func(db swapd.KVStore) error {
		if _, err := h.ctrl.Release(ctx, db, escrow, d, escrow.Maker); err != nil {
			return err
		}
		return h.ctrl.Close(ctx, db, escrow, d)
	})
	if err != nil {
		return nil, err
	}
	h.metrics.escrowRefunded()
	return &swapd.DeliverResult{Data: d.Record}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx swapd.Context, db swapd.KVStore, tx swapd.Tx) (*Escrow, *Derivation, error) {
	var msg RefundMsg
	if err := swapd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, d, err := h.ctrl.Load(db, msg.EscrowID, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	// The maker is read from the stored escrow, never from the caller.
	if !h.auth.HasAddress(ctx, escrow.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can refund")
	}
	locked, err := h.ctrl.Locked(db, escrow, d)
	if err != nil {
		return nil, nil, err
	}
	if !locked.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "holding wallet is empty")
	}
	return escrow, d, nil
}

// atomically runs fn over a cache wrap of db. Changes are written only if
// fn succeeds.
func atomically(db swapd.KVStore, fn func(swapd.KVStore) error) error {
	cstore, ok := db.(swapd.CacheableKVStore)
	if !ok {
		return errors.Wrap(errors.ErrDatabase, "store does not support cache wrapping")
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
