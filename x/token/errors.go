package token

import "github.com/iov-one/safepay/errors"

// ErrMintMismatch is returned when two token accounts or an account and a
// mint do not refer to the same token type. x/token reserves 130 ~ 139.
var ErrMintMismatch = errors.Register(130, "mint mismatch")
