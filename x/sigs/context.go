package sigs

import (
	"context"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/x"
)

type contextKey int

const contextKeySigners contextKey = 0

// withSigners is unexported so that no other module can fake a signature.
func withSigners(ctx safepay.Context, signers []safepay.Condition) safepay.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate exposes the verified signers of the current transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx safepay.Context) []safepay.Condition {
	val, _ := ctx.Value(contextKeySigners).([]safepay.Condition)
	return val
}

func (a Authenticate) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, signer := range a.GetConditions(ctx) {
		if signer.Address().Equals(addr) {
			return true
		}
	}
	return false
}
