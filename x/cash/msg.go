package cash

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
	maxRefSize  int = 64
)

// SendMsg moves native coins between two wallets.
type SendMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	Source      safepay.Address   `json:"source"`
	Destination safepay.Address   `json:"destination"`
	Amount      *coin.Coin        `json:"amount"`
	Memo        string            `json:"memo,omitempty"`
	Ref         []byte            `json:"ref,omitempty"`
}

// Ensure we implement the Msg interface
var _ safepay.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "non-positive amount"))
	} else {
		errs = errors.AppendField(errs, "Amount", s.Amount.Validate())
	}
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if len(s.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	if len(s.Ref) > maxRefSize {
		errs = errors.Append(errs, errors.Field("Ref", errors.ErrInput, "ref too long"))
	}
	return errs
}

func (s *SendMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(s)
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, s)
}
