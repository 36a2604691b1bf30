package escrow

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/orm"
	"github.com/iov-one/swapd/x/cash"
)

// Controller implements the state transitions of an escrow. It does not
// authenticate the caller, handlers must do it before calling in.
type Controller struct {
	bank   cash.Controller
	bucket orm.ModelBucket
}

// NewController returns a controller operating on given wallets and
// escrow bucket.
func NewController(bank cash.Controller, bucket orm.ModelBucket) *Controller {
	return &Controller{
		bank:   bank,
		bucket: bucket,
	}
}

// Open stores a new escrow and locks the deposit in its holding wallet.
// Reusing the (maker, seed) pair of an open escrow fails with ErrDuplicate.
func (c *Controller) Open(db swapd.KVStore, escrow *Escrow, d *Derivation, deposit coin.Coin) error {
	if !deposit.IsPositive() {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit must be positive")
	}
	if escrow.AssetA != deposit.Ticker {
		return errors.Wrapf(errors.ErrCurrency, "deposit %s is not %s", deposit.Ticker, escrow.AssetA)
	}
	if err := c.bucket.Insert(db, d.Record, escrow); err != nil {
		return errors.Wrap(err, "cannot store escrow")
	}
	if err := c.bank.MoveCoins(db, escrow.Maker, d.Holding, deposit); err != nil {
		return errors.Wrap(err, "cannot deposit")
	}
	return nil
}

// Load returns the open escrow stored under given address together with
// its recomputed derivation. The caller provided escrow and vault
// addresses must match the derivation.
func (c *Controller) Load(db swapd.ReadOnlyKVStore, escrowID, vault swapd.Address) (*Escrow, *Derivation, error) {
	var escrow Escrow
	if err := c.bucket.One(db, escrowID, &escrow); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow")
	}
	d, err := Rederive(&escrow)
	if err != nil {
		return nil, nil, err
	}
	if err := d.Verify(escrowID, vault); err != nil {
		return nil, nil, err
	}
	return &escrow, d, nil
}

// Locked returns the amount of asset A held by the holding wallet.
func (c *Controller) Locked(db swapd.ReadOnlyKVStore, escrow *Escrow, d *Derivation) (coin.Coin, error) {
	coins, err := c.bank.Balance(db, d.Holding)
	switch {
	case errors.ErrNotFound.Is(err):
		return coin.NewCoin(0, escrow.AssetA), nil
	case err != nil:
		return coin.Coin{}, errors.Wrap(err, "holding balance")
	}
	return coin.NewCoin(coins.AmountOf(escrow.AssetA), escrow.AssetA), nil
}

// Release moves the full balance of asset A from the holding wallet to
// the destination. The context must carry the custody authority of the
// escrow, which only this extension can grant.
func (c *Controller) Release(ctx swapd.Context, db swapd.KVStore, escrow *Escrow, d *Derivation, dest swapd.Address) (coin.Coin, error) {
	if !(Authenticate{}).HasAddress(ctx, d.Holding) {
		return coin.Coin{}, errors.Wrap(errors.ErrUnauthorized, "no custody of the holding wallet")
	}
	locked, err := c.Locked(db, escrow, d)
	if err != nil {
		return coin.Coin{}, err
	}
	if !locked.IsPositive() {
		return coin.Coin{}, errors.Wrap(errors.ErrInvalidAmount, "holding wallet is empty")
	}
	if err := c.bank.MoveCoins(db, d.Holding, dest, locked); err != nil {
		return coin.Coin{}, errors.Wrap(err, "cannot release")
	}
	return locked, nil
}

// Close removes the holding wallet and the escrow record. Anything left
// on the holding wallet is swept to the maker.
func (c *Controller) Close(ctx swapd.Context, db swapd.KVStore, escrow *Escrow, d *Derivation) error {
	if !(Authenticate{}).HasAddress(ctx, d.Holding) {
		return errors.Wrap(errors.ErrUnauthorized, "no custody of the holding wallet")
	}
	swept, err := c.bank.CloseWallet(db, d.Holding, escrow.Maker)
	if err != nil {
		return errors.Wrap(err, "cannot close holding wallet")
	}
	if !swept.IsEmpty() {
		swapd.GetLogger(ctx).Info("swept holding wallet", "escrow", d.Record, "coins", swept.String())
	}
	if err := c.bucket.Delete(db, d.Record); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	return nil
}
