package escrow

import (
	"encoding/binary"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
)

const (
	// ProgramName is the name under which escrow derives its addresses.
	ProgramName = "escrow"

	seedPrefix = "escrow"

	vaultConditionType = "vault"
)

// Derivation holds everything that is computed from the maker address and
// the seed of an escrow.
type Derivation struct {
	// Key is the derived key of the escrow.
	Key swapd.DerivedKey
	// Bump is the derivation proof to be stored with the escrow.
	Bump uint8
	// Record is the address the escrow record is stored under.
	Record swapd.Address
	// Holding is the address of the wallet holding the locked coins.
	Holding swapd.Address
	// Authority is the condition that allows moving coins from the
	// holding wallet. Only this extension can grant it.
	Authority swapd.Condition
}

// Derive computes the canonical escrow addresses for the maker and seed.
// The result is deterministic and distinct for every (maker, seed) pair.
func Derive(maker swapd.Address, seed uint64) (*Derivation, error) {
	if err := maker.Validate(); err != nil {
		return nil, errors.Wrap(err, "maker")
	}
	key, bump, err := swapd.FindDerivedAddress(ProgramName, derivationSeeds(maker, seed)...)
	if err != nil {
		return nil, errors.Wrap(err, "derive escrow")
	}
	return newDerivation(key, bump), nil
}

// Rederive recomputes the addresses of a stored escrow using its
// derivation proof. It fails with ErrDerivationMismatch if the stored
// data does not produce a valid derivation.
func Rederive(e *Escrow) (*Derivation, error) {
	if e.Bump > 255 {
		return nil, errors.Wrapf(ErrDerivationMismatch, "bump %d out of range", e.Bump)
	}
	if err := e.Maker.Validate(); err != nil {
		return nil, errors.Wrap(ErrDerivationMismatch, "maker")
	}
	bump := uint8(e.Bump)
	key, err := swapd.CreateDerivedAddress(ProgramName, bump, derivationSeeds(e.Maker, e.Seed)...)
	if err != nil {
		return nil, errors.Wrap(ErrDerivationMismatch, err.Error())
	}
	return newDerivation(key, bump), nil
}

// Verify checks that the escrow identifier and the optional holding wallet
// address provided by a caller match this derivation.
func (d *Derivation) Verify(escrowID, vault swapd.Address) error {
	if !d.Record.Equals(escrowID) {
		return errors.Wrapf(ErrDerivationMismatch, "escrow %s does not match derived %s", escrowID, d.Record)
	}
	if len(vault) != 0 && !d.Holding.Equals(vault) {
		return errors.Wrapf(ErrDerivationMismatch, "vault %s does not match derived %s", vault, d.Holding)
	}
	return nil
}

func newDerivation(key swapd.DerivedKey, bump uint8) *Derivation {
	authority := swapd.NewCondition(ProgramName, vaultConditionType, key[:])
	return &Derivation{
		Key:       key,
		Bump:      bump,
		Record:    key.Address(ProgramName),
		Holding:   authority.Address(),
		Authority: authority,
	}
}

// derivationSeeds returns "escrow" || maker || little endian seed.
func derivationSeeds(maker swapd.Address, seed uint64) [][]byte {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, seed)
	return [][]byte{[]byte(seedPrefix), maker, raw}
}
