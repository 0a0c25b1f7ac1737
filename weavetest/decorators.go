package weavetest

import "github.com/iov-one/safepay"

// calls counts Check and Deliver invocations of a mock.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// Decorator is a counting safepay.Decorator. Unless CheckErr or DeliverErr
// is set, it passes the call to the next handler.
type Decorator struct {
	calls
	CheckErr   error
	DeliverErr error
}

var _ safepay.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	d.check++
	if err := d.CheckErr; err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	d.deliver++
	if err := d.DeliverErr; err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate wraps a handler with a single decorator.
func Decorate(h safepay.Handler, d safepay.Decorator) safepay.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   safepay.Handler
	decorator safepay.Decorator
}

func (d decorated) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
