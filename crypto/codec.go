package crypto

import "github.com/gogo/protobuf/proto"

func (p *PublicKey) Marshal() ([]byte, error) {
	return proto.Marshal((*publicKeyPB)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*publicKeyPB)(p))
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return proto.Marshal((*privateKeyPB)(p))
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*privateKeyPB)(p))
}

func (s *Signature) Marshal() ([]byte, error) {
	return proto.Marshal((*signaturePB)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*signaturePB)(s))
}

// The PB twins below are encoded by gogo through struct tag reflection.
// They must not carry Marshal methods or gogo would call back into them.
type (
	publicKeyPB  PublicKey
	privateKeyPB PrivateKey
	signaturePB  Signature
)

func (p *publicKeyPB) Reset()         { *p = publicKeyPB{} }
func (p *publicKeyPB) String() string { return proto.CompactTextString(p) }
func (*publicKeyPB) ProtoMessage()    {}

func (p *privateKeyPB) Reset()         { *p = privateKeyPB{} }
func (p *privateKeyPB) String() string { return proto.CompactTextString(p) }
func (*privateKeyPB) ProtoMessage()    {}

func (s *signaturePB) Reset()         { *s = signaturePB{} }
func (s *signaturePB) String() string { return proto.CompactTextString(s) }
func (*signaturePB) ProtoMessage()    {}
