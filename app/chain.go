package app

import (
	"reflect"

	"github.com/iov-one/safepay"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator is the outermost one.
type Decorators struct {
	chain []safepay.Decorator
}

// ChainDecorators starts a decorator list. Nil decorators are skipped so
// optional steps can be passed unconditionally.
//
//   app.ChainDecorators(
//     utils.NewLogging(),
//     sigs.NewDecorator(),
//   ).WithHandler(router)
func ChainDecorators(ds ...safepay.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a new list with given decorators appended.
func (d Decorators) Chain(ds ...safepay.Decorator) Decorators {
	chain := append([]safepay.Decorator(nil), d.chain...)
	for _, dc := range ds {
		if !isNilDecorator(dc) {
			chain = append(chain, dc)
		}
	}
	return Decorators{chain: chain}
}

func isNilDecorator(d safepay.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler running every decorator, in order, before h.
func (d Decorators) WithHandler(h safepay.Handler) safepay.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{decorator: d.chain[i], next: h}
	}
	return h
}

// link runs one decorator around the rest of the chain.
type link struct {
	decorator safepay.Decorator
	next      safepay.Handler
}

func (l link) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}
