package escrow

import (
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
)

const (
	// BucketName is where we store the escrows
	BucketName = "escrow"

	// MakerIndex is the name of the index of escrows by maker address.
	MakerIndex = "maker"

	packageName = "escrow"
)

func init() {
	migration.MustRegister(1, &Escrow{}, migration.NoModification)
}

var _ orm.CloneableData = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if !coin.IsCC(e.AssetA) {
		return errors.Wrapf(errors.ErrCurrency, "asset a %q", e.AssetA)
	}
	if !coin.IsCC(e.AssetB) {
		return errors.Wrapf(errors.ErrCurrency, "asset b %q", e.AssetB)
	}
	if e.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive amount must be positive")
	}
	if e.Bump > 255 {
		return errors.Wrapf(errors.ErrInvalidState, "bump %d out of range", e.Bump)
	}
	return nil
}

// Copy makes a new escrow with the same values
func (e *Escrow) Copy() orm.CloneableData {
	return &Escrow{
		Metadata:      e.Metadata.Copy(),
		Seed:          e.Seed,
		Maker:         append(e.Maker[:0:0], e.Maker...),
		AssetA:        e.AssetA,
		AssetB:        e.AssetB,
		ReceiveAmount: e.ReceiveAmount,
		Bump:          e.Bump,
	}
}

// Receive returns the coin the maker expects in return.
func (e *Escrow) Receive() coin.Coin {
	return coin.NewCoin(e.ReceiveAmount, e.AssetB)
}

// AsEscrow extracts an *Escrow value or nil from the object
// Must be called on a Bucket result that is an *Escrow,
// will panic on bad type.
func AsEscrow(obj orm.Object) *Escrow {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Escrow)
}

// NewBucket returns a bucket for managing escrow state. Escrows are
// stored under their derived record address and indexed by maker.
func NewBucket() orm.ModelBucket {
	b := orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex(MakerIndex, makerIndexer, false))
	return migration.NewModelBucket(packageName, b)
}

func makerIndexer(obj orm.Object) ([]byte, error) {
	esc, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	return esc.Maker, nil
}
