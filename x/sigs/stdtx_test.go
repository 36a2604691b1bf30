package sigs

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/swaptest"
)

// StdTx is a minimal signed transaction used by the tests of this package.
type StdTx struct {
	swaptest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ swapd.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &swaptest.Msg{RoutePath: "test/mock", Serialized: payload}
	return &StdTx{Tx: swaptest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
