package sigs

import (
	"github.com/iov-one/swapd/errors"
)

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when a signature carries a sequence
	// that does not match the signer's current one.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
