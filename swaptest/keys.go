package swaptest

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/crypto"
)

// NewKey returns a random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() swapd.Condition {
	return NewKey().PublicKey().Condition()
}
