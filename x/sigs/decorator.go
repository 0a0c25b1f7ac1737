/*
Package sigs verifies the ed25519 signatures of a transaction and keeps a
sequence per signer for replay protection. The verified signers are made
available to the handlers through Authenticate.
*/
package sigs

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// RegisterQuery exposes UserData by signer address under "/sigs".
func RegisterQuery(qr safepay.QueryRouter) {
	newUserBucket().Register("sigs", qr)
}

// Decorator authenticates the signers of every transaction. By default a
// transaction without a signature is rejected.
type Decorator struct {
	allowMissingSigs bool
}

var _ safepay.Decorator = Decorator{}

func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a decorator that accepts unsigned transactions.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	ctx, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

func (d Decorator) authenticate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (safepay.Context, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil
	}
	signers, err := VerifyTxSignatures(db, signed, safepay.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "cannot verify signatures")
	case len(signers) == 0 && !d.allowMissingSigs:
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
