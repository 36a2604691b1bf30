/*
Package crypto holds the key and signature types used to authorize
transactions. Only ed25519 is supported.
*/
package crypto

import (
	"github.com/iov-one/swapd"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() swapd.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is a serializable public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// PrivateKey is a serializable private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// Signature is a serializable signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519"`
}

// GetEd25519 returns the raw signature or nil.
func (s *Signature) GetEd25519() []byte {
	if s == nil {
		return nil
	}
	return s.Ed25519
}

// GetEd25519 returns the raw private key or nil.
func (p *PrivateKey) GetEd25519() []byte {
	if p == nil {
		return nil
	}
	return p.Ed25519
}

// Address is a short-cut for Condition().Address(). An empty key has no
// address.
func (p *PublicKey) Address() swapd.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}
