package grant

import "github.com/iov-one/safepay/errors"

// x/grant reserves 140 ~ 149.
var (
	// ErrAddressMismatch is returned when a supplied account does not match
	// the derived or the recorded one.
	ErrAddressMismatch = errors.Register(140, "address mismatch")

	// ErrWrongStage is returned when an operation is not allowed in the
	// current grant stage.
	ErrWrongStage = errors.Register(141, "invalid stage")

	// ErrInvalidProof is returned when a derivation proof yields a point on
	// the curve.
	ErrInvalidProof = errors.Register(142, "invalid derivation proof")
)

// Grant failures that share the generic error kinds.
var (
	ErrInvalidAmount        = errors.ErrAmount
	ErrInsufficientFunds    = errors.ErrInsufficientAmount
	ErrUnauthorized         = errors.ErrUnauthorized
	ErrAccountAlreadyExists = errors.ErrDuplicate
)
