package escrow

import "github.com/iov-one/swapd/errors"

// ABCI Response Codes
// escrow takes 1010-1020
var (
	// ErrDerivationMismatch is returned when the escrow record or the
	// holding wallet referenced by a message does not match the
	// addresses derived from the stored record.
	ErrDerivationMismatch = errors.Register(1010, "derivation mismatch")
)
