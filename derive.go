package swapd

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"filippo.io/edwards25519"
	"github.com/iov-one/swapd/errors"
)

const (
	// MaxDerivationSeeds is the maximum number of seeds accepted by a
	// single derivation.
	MaxDerivationSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	// derivedAddressMarker is appended to every derivation hash so that
	// a derived key can never collide with a hash computed elsewhere.
	derivedAddressMarker = "DerivedAddress"

	derivedConditionType = "pda"
)

// DerivedKey is a 32 byte value that is guaranteed not to be a valid
// ed25519 public key. Nobody can hold a private key for it, so the only
// way to authorize on its behalf is to let the program that derived it
// place its condition in the context.
type DerivedKey [32]byte

// String returns the hex representation of the key.
func (k DerivedKey) String() string {
	return strings.ToUpper(hex.EncodeToString(k[:]))
}

// Condition returns the condition that represents the authority of the
// derived key when used by the given program.
func (k DerivedKey) Condition(program string) Condition {
	return NewCondition(program, derivedConditionType, k[:])
}

// Address returns the address of the derived key as used by the given
// program.
func (k DerivedKey) Address(program string) Address {
	return k.Condition(program).Address()
}

// FindDerivedAddress searches for the canonical derived key of the given
// seeds. Bump values are tried from 255 down to 0 and the first candidate
// that is not a point on the ed25519 curve is returned together with its
// bump. The bump must be stored by the caller so the key can be recomputed
// later with CreateDerivedAddress.
func FindDerivedAddress(program string, seeds ...[]byte) (DerivedKey, uint8, error) {
	if err := validateDerivation(program, seeds); err != nil {
		return DerivedKey{}, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		key := derivedCandidate(program, uint8(bump), seeds)
		if !isOnCurve(key[:]) {
			return key, uint8(bump), nil
		}
	}
	return DerivedKey{}, 0, errors.Wrap(errors.ErrInvalidInput, "no viable bump for derived address")
}

// CreateDerivedAddress recomputes a derived key from the seeds and a
// known bump. It fails if the resulting candidate lies on the curve, as
// such a key may have a private counterpart.
func CreateDerivedAddress(program string, bump uint8, seeds ...[]byte) (DerivedKey, error) {
	if err := validateDerivation(program, seeds); err != nil {
		return DerivedKey{}, err
	}
	key := derivedCandidate(program, bump, seeds)
	if isOnCurve(key[:]) {
		return DerivedKey{}, errors.Wrapf(errors.ErrInvalidInput, "derived address with bump %d is on curve", bump)
	}
	return key, nil
}

func validateDerivation(program string, seeds [][]byte) error {
	if !IsValidExtension(program) {
		return errors.Wrapf(errors.ErrInvalidInput, "program name %q", program)
	}
	if len(seeds) > MaxDerivationSeeds {
		return errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInvalidInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

func derivedCandidate(program string, bump uint8, seeds [][]byte) DerivedKey {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(program))
	_, _ = h.Write([]byte(derivedAddressMarker))

	var key DerivedKey
	copy(key[:], h.Sum(nil))
	return key
}

// isOnCurve reports whether b is a valid compressed ed25519 point.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
