package grant

import (
	"context"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/x"
)

type contextKey int

const (
	contextKeyGrant contextKey = iota
)

// withAuthority grants the derived condition for the rest of the call. Only
// this package can do that, so the holding accounts cannot be moved by
// anything else.
func withAuthority(ctx safepay.Context, cond safepay.Condition) safepay.Context {
	prev, _ := ctx.Value(contextKeyGrant).([]safepay.Condition)
	conds := make([]safepay.Condition, 0, len(prev)+1)
	conds = append(conds, prev...)
	conds = append(conds, cond)
	return context.WithValue(ctx, contextKeyGrant, conds)
}

// Authenticate exposes the derived conditions placed in the context by the
// grant handlers.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the derived conditions of the current call.
func (Authenticate) GetConditions(ctx safepay.Context) []safepay.Condition {
	val, _ := ctx.Value(contextKeyGrant).([]safepay.Condition)
	return val
}

// HasAddress returns true if addr belongs to a derived condition of the
// current call.
func (a Authenticate) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, cond := range a.GetConditions(ctx) {
		if addr.Equals(cond.Address()) {
			return true
		}
	}
	return false
}
