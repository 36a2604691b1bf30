package cash

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
)

const (
	// BucketName is where we store the balances
	BucketName = "cash"

	// packageName is the schema versioning namespace of this extension.
	packageName = "cash"
)

//---- Set

var _ orm.CloneableData = (*Set)(nil)

func init() {
	migration.MustRegister(1, &Set{}, migration.NoModification)
}

// Validate requires metadata and that all coins are in alphabetical order
func (s *Set) Validate() error {
	if err := s.GetMetadata().Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return s.GetCoins().Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Metadata: s.GetMetadata().Copy(),
		Coins:    s.GetCoins().Clone(),
	}
}

// Add modifies the set to add Coin c
func (s *Set) Add(c coin.Coin) error {
	cs, err := s.GetCoins().Add(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// Subtract modifies the set to remove Coin c
func (s *Set) Subtract(c coin.Coin) error {
	cs, err := s.GetCoins().Subtract(c)
	if err != nil {
		return err
	}
	s.Coins = cs
	return nil
}

// Contains returns true if there is at least that much
// coin in the set.
func (s *Set) Contains(c coin.Coin) bool {
	return s.GetCoins().Contains(c)
}

// Concat combines the coins to make sure they are sorted
// and rounded off, with no duplicates or 0 values.
func (s *Set) Concat(coins coin.Coins) error {
	joint, err := s.GetCoins().Combine(coins)
	if err != nil {
		return err
	}
	s.Coins = joint
	return nil
}

//--- Wallet (Set object, wallet + key)

// AsSet will safely type-cast any value from Bucket
func AsSet(obj orm.Object) *Set {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Set)
}

// NewWallet creates an empty wallet with this address
// serves as an object for the bucket
func NewWallet(key swapd.Address) orm.Object {
	return orm.NewSimpleObj(key, &Set{Metadata: &swapd.Metadata{Schema: 1}})
}

// WalletWith creates an wallet with a balance
func WalletWith(key swapd.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	if err := AsSet(obj).Concat(coins); err != nil {
		return nil, err
	}
	return obj, nil
}

//--- cash.Bucket - type-safe bucket

// Bucket is a type-safe wrapper around a schema versioned orm.Bucket
type Bucket struct {
	migration.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, NewWallet(nil))
	return Bucket{
		Bucket: migration.NewBucket(packageName, b),
	}
}

// GetOrCreate will return the object if found, or create one
// if not.
func (b Bucket) GetOrCreate(db swapd.KVStore, key swapd.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}

// Save enforces the proper type
func (b Bucket) Save(db swapd.KVStore, obj orm.Object) error {
	if _, ok := obj.Value().(*Set); !ok {
		return errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	return b.Bucket.Save(db, obj)
}
