package utils

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ safepay.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into ErrPanic
func (Recovery) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (_ *safepay.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into ErrPanic
func (Recovery) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (_ *safepay.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
