package escrow

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/x/cash"
)

var _ swapd.Initializer = (*Initializer)(nil)

// Initializer fulfils the Initializer interface to load open escrows from
// the genesis file. The deposit of every escrow is issued directly to its
// holding wallet.
type Initializer struct {
	Minter cash.CoinMinter
}

// GenesisEscrow describes a single open escrow in the genesis file.
type GenesisEscrow struct {
	Maker         swapd.Address `json:"maker"`
	Seed          uint64        `json:"seed"`
	Deposit       coin.Coin     `json:"deposit"`
	AssetB        string        `json:"asset_b"`
	ReceiveAmount uint64        `json:"receive_amount"`
}

// FromGenesis will parse initial escrow info from genesis and save it in the database.
func (i *Initializer) FromGenesis(opts swapd.Options, db swapd.KVStore) error {
	var escrows []GenesisEscrow
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return err
	}

	bucket := NewBucket()
	for j, e := range escrows {
		if !e.Deposit.IsPositive() {
			return errors.Wrapf(errors.ErrInvalidAmount, "escrow %d: deposit must be positive", j)
		}
		d, err := Derive(e.Maker, e.Seed)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		escrow := Escrow{
			Metadata:      &swapd.Metadata{Schema: 1},
			Seed:          e.Seed,
			Maker:         e.Maker,
			AssetA:        e.Deposit.Ticker,
			AssetB:        e.AssetB,
			ReceiveAmount: e.ReceiveAmount,
			Bump:          uint32(d.Bump),
		}
		if err := bucket.Insert(db, d.Record, &escrow); err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		if err := i.Minter.IssueCoins(db, d.Holding, e.Deposit); err != nil {
			return errors.Wrapf(err, "escrow %d: cannot issue deposit", j)
		}
	}
	return nil
}
