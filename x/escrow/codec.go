package escrow

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
)

// Escrow is the persisted state of a single open trade.
type Escrow struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	// Seed is the maker chosen nonce that together with the maker
	// address identifies the escrow.
	Seed uint64 `protobuf:"varint,2,opt,name=seed,proto3" json:"seed"`
	// Maker created the escrow and is the only one allowed to cancel it.
	Maker swapd.Address `protobuf:"bytes,3,opt,name=maker,proto3" json:"maker"`
	// AssetA is the ticker of the locked asset.
	AssetA string `protobuf:"bytes,4,opt,name=asset_a,proto3" json:"asset_a"`
	// AssetB is the ticker of the requested asset.
	AssetB string `protobuf:"bytes,5,opt,name=asset_b,proto3" json:"asset_b"`
	// ReceiveAmount is the quantity of asset B the maker wants.
	ReceiveAmount uint64 `protobuf:"varint,6,opt,name=receive_amount,proto3" json:"receive_amount"`
	// Bump is the derivation proof. Together with the maker and the
	// seed it recomputes the escrow and the holding wallet addresses.
	Bump uint32 `protobuf:"varint,7,opt,name=bump,proto3" json:"bump"`
}

// MakeMsg opens a new escrow.
type MakeMsg struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	// Maker is optional. If not provided, the main signer is used.
	Maker         swapd.Address `protobuf:"bytes,2,opt,name=maker,proto3" json:"maker,omitempty"`
	Seed          uint64        `protobuf:"varint,3,opt,name=seed,proto3" json:"seed"`
	AssetA        string        `protobuf:"bytes,4,opt,name=asset_a,proto3" json:"asset_a"`
	DepositAmount uint64        `protobuf:"varint,5,opt,name=deposit_amount,proto3" json:"deposit_amount"`
	AssetB        string        `protobuf:"bytes,6,opt,name=asset_b,proto3" json:"asset_b"`
	ReceiveAmount uint64        `protobuf:"varint,7,opt,name=receive_amount,proto3" json:"receive_amount"`
}

// TakeMsg completes an open escrow.
type TakeMsg struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	EscrowID swapd.Address   `protobuf:"bytes,2,opt,name=escrow_id,proto3" json:"escrow_id"`
	// Taker is optional. If not provided, the main signer is used.
	Taker swapd.Address `protobuf:"bytes,3,opt,name=taker,proto3" json:"taker,omitempty"`
	// Destination is optional. If not provided, asset A is released to
	// the taker.
	Destination swapd.Address `protobuf:"bytes,4,opt,name=destination,proto3" json:"destination,omitempty"`
	// Vault is optional. If provided, it must be the address of the
	// holding wallet of the escrow.
	Vault swapd.Address `protobuf:"bytes,5,opt,name=vault,proto3" json:"vault,omitempty"`
}

// RefundMsg cancels an open escrow and returns the locked coins to the
// maker.
type RefundMsg struct {
	Metadata *swapd.Metadata `protobuf:"bytes,1,opt,name=metadata" json:"metadata"`
	EscrowID swapd.Address   `protobuf:"bytes,2,opt,name=escrow_id,proto3" json:"escrow_id"`
	// Vault is optional. If provided, it must be the address of the
	// holding wallet of the escrow.
	Vault swapd.Address `protobuf:"bytes,3,opt,name=vault,proto3" json:"vault,omitempty"`
}

func (e *Escrow) GetMetadata() *swapd.Metadata {
	if e == nil {
		return nil
	}
	return e.Metadata
}

func (m *MakeMsg) GetMetadata() *swapd.Metadata {
	if m == nil {
		return nil
	}
	return m.Metadata
}

func (m *TakeMsg) GetMetadata() *swapd.Metadata {
	if m == nil {
		return nil
	}
	return m.Metadata
}

func (m *RefundMsg) GetMetadata() *swapd.Metadata {
	if m == nil {
		return nil
	}
	return m.Metadata
}

func (e *Escrow) Marshal() ([]byte, error)   { return proto.Marshal((*escrowPB)(e)) }
func (e *Escrow) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*escrowPB)(e)) }

func (m *MakeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*makeMsgPB)(m)) }
func (m *MakeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*makeMsgPB)(m)) }

func (m *TakeMsg) Marshal() ([]byte, error)   { return proto.Marshal((*takeMsgPB)(m)) }
func (m *TakeMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*takeMsgPB)(m)) }

func (m *RefundMsg) Marshal() ([]byte, error)   { return proto.Marshal((*refundMsgPB)(m)) }
func (m *RefundMsg) Unmarshal(raw []byte) error { return proto.Unmarshal(raw, (*refundMsgPB)(m)) }

type (
	escrowPB    Escrow
	makeMsgPB   MakeMsg
	takeMsgPB   TakeMsg
	refundMsgPB RefundMsg
)

func (e *escrowPB) Reset()         { *e = escrowPB{} }
func (e *escrowPB) String() string { return proto.CompactTextString(e) }
func (*escrowPB) ProtoMessage()    {}

func (m *makeMsgPB) Reset()         { *m = makeMsgPB{} }
func (m *makeMsgPB) String() string { return proto.CompactTextString(m) }
func (*makeMsgPB) ProtoMessage()    {}

func (m *takeMsgPB) Reset()         { *m = takeMsgPB{} }
func (m *takeMsgPB) String() string { return proto.CompactTextString(m) }
func (*takeMsgPB) ProtoMessage()    {}

func (m *refundMsgPB) Reset()         { *m = refundMsgPB{} }
func (m *refundMsgPB) String() string { return proto.CompactTextString(m) }
func (*refundMsgPB) ProtoMessage()    {}
