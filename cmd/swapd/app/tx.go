package app

import (
	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/x/cash"
	"github.com/iov-one/swapd/x/escrow"
	"github.com/iov-one/swapd/x/sigs"
)

// Tx is the transaction format of swapd. It carries exactly one message
// and the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures" json:"signatures"`
	Sum        *TxSum               `protobuf:"bytes,2,opt,name=sum" json:"sum"`
}

// TxSum holds the message of a transaction. Exactly one field must be set.
type TxSum struct {
	SendMsg         *cash.SendMsg         `protobuf:"bytes,1,opt,name=send_msg" json:"send_msg,omitempty"`
	BumpSequenceMsg *sigs.BumpSequenceMsg `protobuf:"bytes,2,opt,name=bump_sequence_msg" json:"bump_sequence_msg,omitempty"`
	MakeMsg         *escrow.MakeMsg       `protobuf:"bytes,3,opt,name=make_msg" json:"make_msg,omitempty"`
	TakeMsg         *escrow.TakeMsg       `protobuf:"bytes,4,opt,name=take_msg" json:"take_msg,omitempty"`
	RefundMsg       *escrow.RefundMsg     `protobuf:"bytes,5,opt,name=refund_msg" json:"refund_msg,omitempty"`
}

var _ swapd.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (swapd.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx returns an unsigned transaction carrying given message.
func NewTx(msg swapd.Msg) (*Tx, error) {
	var tx Tx
	if err := tx.SetMsg(msg); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetMsg returns a single message instance that is represented by this
// transaction.
func (tx *Tx) GetMsg() (swapd.Msg, error) {
	if tx.Sum == nil {
		return nil, errors.Wrap(errors.ErrInvalidState, "transaction carries no message")
	}
	return swapd.ExtractMsgFromSum(tx.Sum)
}

// SetMsg sets the message of the transaction, replacing any previous one.
func (tx *Tx) SetMsg(msg swapd.Msg) error {
	var sum TxSum
	switch m := msg.(type) {
	case *cash.SendMsg:
		sum.SendMsg = m
	case *sigs.BumpSequenceMsg:
		sum.BumpSequenceMsg = m
	case *escrow.MakeMsg:
		sum.MakeMsg = m
	case *escrow.TakeMsg:
		sum.TakeMsg = m
	case *escrow.RefundMsg:
		sum.RefundMsg = m
	default:
		return errors.Wrapf(errors.ErrInvalidType, "unsupported message %T", msg)
	}
	tx.Sum = &sum
	return nil
}

// GetSignatures returns the signatures on the tx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign. It is the serialized transaction
// without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Sum: tx.Sum}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	return proto.Marshal((*txPB)(tx))
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := proto.Unmarshal(raw, (*txPB)(tx)); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return nil
}

type txPB Tx

func (tx *txPB) Reset()         { *tx = txPB{} }
func (tx *txPB) String() string { return proto.CompactTextString(tx) }
func (*txPB) ProtoMessage()     {}
