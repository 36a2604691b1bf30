package cash

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
)

// Balancer reports the coins held by an address.
type Balancer interface {
	Balance(swapd.ReadOnlyKVStore, swapd.Address) (coin.Coins, error)
}

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to the
	// destination account. This operation is atomic.
	MoveCoins(swapd.KVStore, swapd.Address, swapd.Address, coin.Coin) error
}

// CoinMinter is an interface to create new coins.
type CoinMinter interface {
	// IssueCoins increase the number of funds on given accouunt by a
	// specified amount.
	IssueCoins(swapd.KVStore, swapd.Address, coin.Coin) error
}

// WalletCloser removes a wallet from the state.
type WalletCloser interface {
	// CloseWallet moves every coin still held by the wallet to the
	// beneficiary and deletes the wallet. It returns the swept coins.
	CloseWallet(db swapd.KVStore, wallet, beneficiary swapd.Address) (coin.Coins, error)
}

// Controller is the functionality needed by cash.Handler and cash.Decorator.
// BaseController should work plenty fine, but you can add other logic if
// so desired.
type Controller interface {
	Balancer
	CoinMover
	CoinMinter
	WalletCloser
}

// BaseController is a simple implementation of controller wallet must return
// a type that can be cast to Set.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins held by given address. A missing wallet is
// reported as ErrNotFound.
func (c BaseController) Balance(db swapd.ReadOnlyKVStore, addr swapd.Address) (coin.Coins, error) {
	state, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get account state")
	}
	if state == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "no wallet")
	}
	return AsSet(state).Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db swapd.KVStore, src swapd.Address, dest swapd.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender wallet")
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "empty account %s", src)
	}
	if !AsSet(sender).Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "need %s, have %s", amount, AsSet(sender).Coins)
	}

	if err := AsSet(sender).Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return errors.Wrap(err, "cannot save sender wallet")
	}

	// The recipient is loaded after the sender is saved so that moving
	// coins to self reads the updated balance.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient wallet")
	}
	if err := AsSet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(db swapd.KVStore, dest swapd.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := AsSet(recipient).Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// CloseWallet moves all funds left on the wallet to the beneficiary and
// removes the wallet. Closing a wallet that does not exist is a no-op.
func (c BaseController) CloseWallet(db swapd.KVStore, wallet, beneficiary swapd.Address) (coin.Coins, error) {
	obj, err := c.bucket.Get(db, wallet)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get wallet")
	}
	if obj == nil {
		return nil, nil
	}
	left := AsSet(obj).Coins.Clone()
	if len(left) > 0 {
		if wallet.Equals(beneficiary) {
			return nil, errors.Wrap(errors.ErrInvalidInput, "cannot sweep wallet to itself")
		}
		for _, amount := range left {
			if err := c.MoveCoins(db, wallet, beneficiary, *amount); err != nil {
				return nil, errors.Wrapf(err, "cannot sweep %s", amount)
			}
		}
	}
	if err := c.bucket.Delete(db, wallet); err != nil {
		return nil, errors.Wrap(err, "cannot delete wallet")
	}
	return left, nil
}
