package app

import (
	"github.com/iov-one/swapd"
	"github.com/iov-one/swapd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp serves CheckTx and DeliverTx on top of the state and queries of
// StoreApp. Raw transactions are decoded and passed to a single handler,
// usually a decorator chain ending in a router.
type BaseApp struct {
	*StoreApp
	decoder swapd.TxDecoder
	handler swapd.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application processing transactions with given
// handler. In debug mode full error details are returned to the client.
func NewBaseApp(store *StoreApp, decoder swapd.TxDecoder, handler swapd.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx applies the transaction to the block state.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.decode("deliver_tx", raw)
	if err != nil {
		return swapd.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return swapd.DeliverOrError(res, err, b.debug)
}

// CheckTx validates the transaction against the mempool state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.decode("check_tx", raw)
	if err != nil {
		return swapd.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return swapd.CheckOrError(res, err, b.debug)
}

// decode returns the transaction together with the block context the
// handler is called with. A panicking decoder is reported as an error.
func (b BaseApp) decode(call string, raw []byte) (ctx swapd.Context, tx swapd.Tx, err error) {
	defer errors.Recover(&err)

	if tx, err = b.decoder(raw); err != nil {
		return nil, nil, err
	}
	ctx = swapd.WithLogInfo(b.BlockContext(),
		"call", call,
		"path", swapd.GetPath(tx),
		"size", len(raw))
	return ctx, tx, nil
}
