package cash

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
)

// Set is the persisted value of a wallet: a normalized set of coins.
type Set struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	Coins    coin.Coins      `protobuf:"bytes,2,rep,name=coins" json:"coins"`
}

// GetMetadata returns the metadata, nil safe.
func (s *Set) GetMetadata() *swapd.Metadata {
	if s == nil {
		return nil
	}
	return s.Metadata
}

// GetCoins returns the coins, nil safe.
func (s *Set) GetCoins() coin.Coins {
	if s == nil {
		return nil
	}
	return s.Coins
}

func (s *Set) Marshal() ([]byte, error)   { return proto.Marshal((*setPB)(s)) }
func (s *Set) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*setPB)(s)) }

// SendMsg moves coins from one wallet to another.
type SendMsg struct {
	Metadata    *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	Source      []byte          `protobuf:"bytes,2,opt,name=source,proto3" json:"source"`
	Destination []byte          `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination"`
	Amount      *coin.Coin      `protobuf:"bytes,4,opt,name=amount" json:"amount"`
	// Memo is an optional human readable note.
	Memo string `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
	// Ref is an optional binary reference, ie. to an external payment.
	Ref []byte `protobuf:"bytes,6,opt,name=ref,proto3" json:"ref,omitempty"`
}

// GetMetadata returns the metadata, nil safe.
func (m *SendMsg) GetMetadata() *swapd.Metadata {
	if m == nil {
		return nil
	}
	return m.Metadata
}

func (m *SendMsg) Marshal() ([]byte, error)   { return proto.Marshal((*sendMsgPB)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*sendMsgPB)(m)) }

// Method free twins serialized by gogo through struct tag reflection.
type (
	setPB     Set
	sendMsgPB SendMsg
)

func (s *setPB) Reset()         { *s = setPB{} }
func (s *setPB) String() string { return proto.CompactTextString(s) }
func (*setPB) ProtoMessage()    {}

func (m *sendMsgPB) Reset()         { *m = sendMsgPB{} }
func (m *sendMsgPB) String() string { return proto.CompactTextString(m) }
func (*sendMsgPB) ProtoMessage()    {}
