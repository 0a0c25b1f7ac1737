/*
Package x contains the interfaces shared by all extensions: authentication
of the transaction signers and validation of the persisted data.
*/
package x

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Authenticator tells which conditions authorized the current transaction.
// Handlers receive it in their constructor instead of reading signatures
// directly, so that a program authority such as the grant escrow can sign
// next to the transaction keys.
type Authenticator interface {
	// GetConditions returns every condition fulfilled in this context.
	GetConditions(safepay.Context) []safepay.Condition
	// HasAddress tells if any fulfilled condition has given address.
	HasAddress(safepay.Context, safepay.Address) bool
}

// MultiAuth is the union of several authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an authenticator that accepts the conditions of all
// given authenticators.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx safepay.Context) []safepay.Condition {
	var conds []safepay.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx safepay.Context, addr safepay.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx safepay.Context, auth Authenticator) []safepay.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]safepay.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// RequireSigner returns ErrUnauthorized, described by what, unless addr
// authorized the transaction.
func RequireSigner(ctx safepay.Context, auth Authenticator, addr safepay.Address, what string) error {
	if auth.HasAddress(ctx, addr) {
		return nil
	}
	return errors.Wrapf(errors.ErrUnauthorized, "%s signature missing", what)
}
