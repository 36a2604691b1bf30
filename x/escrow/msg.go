package escrow

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
)

const (
	pathMakeMsg   = "escrow/make"
	pathTakeMsg   = "escrow/take"
	pathRefundMsg = "escrow/refund"
)

func init() {
	migration.MustRegister(1, &MakeMsg{}, migration.NoModification)
	migration.MustRegister(1, &TakeMsg{}, migration.NoModification)
	migration.MustRegister(1, &RefundMsg{}, migration.NoModification)
}

var _ swapd.Msg = (*MakeMsg)(nil)
var _ swapd.Msg = (*TakeMsg)(nil)
var _ swapd.Msg = (*RefundMsg)(nil)

//--------- Path routing --------

// Path fulfills swapd.Msg interface to allow routing
func (MakeMsg) Path() string {
	return pathMakeMsg
}

// Path fulfills swapd.Msg interface to allow routing
func (TakeMsg) Path() string {
	return pathTakeMsg
}

// Path fulfills swapd.Msg interface to allow routing
func (RefundMsg) Path() string {
	return pathRefundMsg
}

//--------- Validation --------

// Validate makes sure that this is sensible. Amounts are checked right
// after the metadata so that a zero deposit is reported as an invalid
// amount.
func (m *MakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.DepositAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit amount must be positive")
	}
	if m.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive amount must be positive")
	}
	if !coin.IsCC(m.AssetA) {
		return errors.Wrapf(errors.ErrCurrency, "asset a %q", m.AssetA)
	}
	if !coin.IsCC(m.AssetB) {
		return errors.Wrapf(errors.ErrCurrency, "asset b %q", m.AssetB)
	}
	return validateOptionalAddress(m.Maker, "maker")
}

// Deposit returns the coin locked by the maker.
func (m *MakeMsg) Deposit() coin.Coin {
	return coin.NewCoin(m.DepositAmount, m.AssetA)
}

// Validate makes sure that this is sensible
func (m *TakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.EscrowID.Validate(); err != nil {
		return errors.Wrap(err, "escrow id")
	}
	if err := validateOptionalAddress(m.Taker, "taker"); err != nil {
		return err
	}
	if err := validateOptionalAddress(m.Destination, "destination"); err != nil {
		return err
	}
	return validateOptionalAddress(m.Vault, "vault")
}

// Validate makes sure that this is sensible
func (m *RefundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.EscrowID.Validate(); err != nil {
		return errors.Wrap(err, "escrow id")
	}
	return validateOptionalAddress(m.Vault, "vault")
}

func validateOptionalAddress(a swapd.Address, name string) error {
	if len(a) == 0 {
		return nil
	}
	return errors.Wrap(a.Validate(), name)
}
