package sigs

import "github.com/iov-one/safepay/errors"

// ErrInvalidSequence is returned when a signature sequence does not match
// the current user nonce. x/sigs reserves 120 ~ 129.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
