package swapd

import (
	"github.com/iov-one/swapd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors.
type DeliverResult struct {
	// Data is returned to the client, ie. the address of an opened escrow.
	Data []byte
	Log  string
	// Tags are indexed by tendermint so that the transaction history can
	// be searched by them.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI converts the result into the tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a successfully checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the maximum units of work the transaction may use.
	GasAllocated int64
	// GasPayment is the units of work already charged by the check.
	GasPayment int64
}

// ToABCI converts the result into the tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
		GasUsed:   c.GasPayment,
	}
}

// DeliverOrError returns the response for the result, or for the error if
// it is not nil.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the response for the result, or for the error if it
// is not nil.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts an error into a failed deliver response. Errors
// not registered in the errors package are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := abciFailure("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts an error into a failed check response. Errors not
// registered in the errors package are redacted unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := abciFailure("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func abciFailure(prefix string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, prefix + ": " + log
}
