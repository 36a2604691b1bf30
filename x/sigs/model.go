package sigs

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/crypto"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
	"github.com/iov-one/swapd/orm"
)

const (
	// BucketName is where the signer sequences are stored.
	BucketName = "sigs"

	packageName = "sigs"

	// maxSequence is the greatest nonce a client can represent, that is
	// Number.MAX_SAFE_INTEGER of a javascript client.
	maxSequence = 1<<53 - 1
)

func init() {
	migration.MustRegister(1, &UserData{}, migration.NoModification)
	migration.MustRegister(1, &BumpSequenceMsg{}, migration.NoModification)
}

var _ orm.Model = (*UserData)(nil)

// Validate requires a public key once the account signed anything.
func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	switch {
	case u.Sequence < 0:
		return errors.Wrap(ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Wrap(ErrInvalidSequence, "sequence without a public key")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	cpy := &UserData{
		Metadata: u.Metadata.Copy(),
		Sequence: u.Sequence,
	}
	if u.Pubkey != nil {
		cpy.Pubkey = &crypto.PublicKey{Ed25519: append([]byte(nil), u.Pubkey.Ed25519...)}
	}
	return cpy
}

// consume accepts a signature with given sequence and moves the account to
// the next one. Only the current sequence is accepted, so a signed
// transaction cannot be replayed.
func (u *UserData) consume(seq int64) error {
	if u.Sequence != seq {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, seq)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// NewBucket returns the schema versioned bucket of signer accounts.
func NewBucket() orm.ModelBucket {
	return migration.NewModelBucket(packageName, orm.NewModelBucket(BucketName, &UserData{}))
}

// loadUser returns the account of given address or nil if it never signed
// anything.
func loadUser(db swapd.ReadOnlyKVStore, b orm.ModelBucket, addr swapd.Address) (*UserData, error) {
	var u UserData
	switch err := b.One(db, addr, &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "load user")
	}
}
