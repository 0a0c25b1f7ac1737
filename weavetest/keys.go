package weavetest

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a new random key.
func NewCondition() safepay.Condition {
	return NewKey().PublicKey().Condition()
}
