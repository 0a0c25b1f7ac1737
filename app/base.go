/*
Package app glues the extensions into an ABCI application: a router
dispatching messages by path, decorator chains, the committed store with
its check and deliver caches, and the query interface.
*/
package app

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs transactions through a handler on top of a StoreApp. CheckTx
// works on the check cache and DeliverTx on the deliver cache of the store.
type BaseApp struct {
	*StoreApp
	decoder safepay.TxDecoder
	handler safepay.Handler
	// debug exposes internal error details in responses.
	debug bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder safepay.TxDecoder, handler safepay.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// DeliverTx - ABCI
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare(raw, "deliver_tx")
	if err != nil {
		return safepay.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return safepay.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare(raw, "check_tx")
	if err != nil {
		return safepay.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return safepay.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context extended
// with the logging fields of this call. A panicking decoder is reported as
// an error.
func (b BaseApp) prepare(raw []byte, call string) (ctx safepay.Context, tx safepay.Tx, err error) {
	defer errors.Recover(&err)
	if tx, err = b.decoder(raw); err != nil {
		return nil, nil, err
	}
	ctx = safepay.WithLogInfo(b.BlockContext(), "call", call, "path", safepay.GetPath(tx))
	return ctx, tx, nil
}
