package cash

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/coin"
	"github.com/iov-one/swapd/errors"
	"github.com/iov-one/swapd/migration"
)

// Ensure we implement the Msg interface
var _ swapd.Msg = (*SendMsg)(nil)

func init() {
	migration.MustRegister(1, &SendMsg{}, migration.NoModification)
}

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
	maxRefSize  int = 64
)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if err := s.GetMetadata().Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive SendMsg: %v", s.Amount)
	}
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := swapd.Address(s.Source).Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := swapd.Address(s.Destination).Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInvalidState, "memo too long")
	}
	if len(s.Ref) > maxRefSize {
		return errors.Wrap(errors.ErrInvalidState, "ref too long")
	}
	return nil
}

// DefaultSource makes sure there is a payer.
// If it was already set, returns s.
// If none was set, returns a new SendMsg with the source set
func (s *SendMsg) DefaultSource(addr []byte) *SendMsg {
	if len(s.Source) != 0 {
		return s
	}
	return &SendMsg{
		Metadata:    s.Metadata,
		Source:      addr,
		Destination: s.Destination,
		Amount:      s.Amount,
		Memo:        s.Memo,
		Ref:         s.Ref,
	}
}
