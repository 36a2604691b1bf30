package sigs

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/crypto"
)

// UserData is the persisted state of a signer, stored under the address
// of its public key.
type UserData struct {
	Metadata *swapd.Metadata   `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	Pubkey   *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey" json:"pubkey"`
	// Sequence is the nonce expected in the next signature.
	Sequence int64 `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence"`
}

// StdSignature is a signature attached to a transaction. The sequence must
// match the signer's current sequence.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey" json:"pubkey"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature" json:"signature"`
}

// BumpSequenceMsg increments the sequence of the main signer.
type BumpSequenceMsg struct {
	Metadata  *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	Increment uint32          `protobuf:"varint,2,opt,name=increment,proto3" json:"increment"`
}

func (u *UserData) GetMetadata() *swapd.Metadata {
	if u == nil {
		return nil
	}
	return u.Metadata
}

func (m *BumpSequenceMsg) GetMetadata() *swapd.Metadata {
	if m == nil {
		return nil
	}
	return m.Metadata
}

// GetSequence returns the signature sequence or zero.
func (s *StdSignature) GetSequence() int64 {
	if s == nil {
		return 0
	}
	return s.Sequence
}

func (u *UserData) Marshal() ([]byte, error)   { return proto.Marshal((*userDataPB)(u)) }
func (u *UserData) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*userDataPB)(u)) }

func (s *StdSignature) Marshal() ([]byte, error)   { return proto.Marshal((*stdSignaturePB)(s)) }
func (s *StdSignature) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*stdSignaturePB)(s)) }

func (m *BumpSequenceMsg) Marshal() ([]byte, error)   { return proto.Marshal((*bumpSequenceMsgPB)(m)) }
func (m *BumpSequenceMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*bumpSequenceMsgPB)(m)) }

type (
	userDataPB        UserData
	stdSignaturePB    StdSignature
	bumpSequenceMsgPB BumpSequenceMsg
)

func (u *userDataPB) Reset()         { *u = userDataPB{} }
func (u *userDataPB) String() string { return proto.CompactTextString(u) }
func (*userDataPB) ProtoMessage()    {}

func (s *stdSignaturePB) Reset()         { *s = stdSignaturePB{} }
func (s *stdSignaturePB) String() string { return proto.CompactTextString(s) }
func (*stdSignaturePB) ProtoMessage()    {}

func (m *bumpSequenceMsgPB) Reset()         { *m = bumpSequenceMsgPB{} }
func (m *bumpSequenceMsgPB) String() string { return proto.CompactTextString(m) }
func (*bumpSequenceMsgPB) ProtoMessage()    {}
