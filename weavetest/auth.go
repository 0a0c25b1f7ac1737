package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/safepay"
)

// Auth is a static x.Authenticator. It always reports Signer together with
// all Signers, whatever the context.
type Auth struct {
	Signer  safepay.Condition
	Signers []safepay.Condition
}

func (a *Auth) GetConditions(safepay.Context) []safepay.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	return append(append([]safepay.Condition(nil), a.Signers...), a.Signer)
}

func (a *Auth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

// CtxAuth is an x.Authenticator that reads the signing conditions from the
// context, so each test case can authorize a different set of signers with
// the same handler.
type CtxAuth struct {
	// Key under which the conditions are stored in the context.
	Key string
}

// SetConditions returns a copy of the context authorized by given
// conditions only.
func (a *CtxAuth) SetConditions(ctx safepay.Context, conds ...safepay.Condition) safepay.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx safepay.Context) []safepay.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []safepay.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	return anyAddress(a.GetConditions(ctx), addr)
}

func anyAddress(conds []safepay.Condition, addr safepay.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
