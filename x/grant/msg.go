package grant

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

var (
	_ safepay.Msg = (*CreateGrantMsg)(nil)
	_ safepay.Msg = (*CompleteGrantMsg)(nil)
	_ safepay.Msg = (*CancelGrantMsg)(nil)
)

// CreateGrantMsg deposits Amount tokens of Mint from the Source account of
// the sender into a new holding account.
type CreateGrantMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	UID         uint64            `json:"uid"`
	StateProof  uint8             `json:"state_proof"`
	EscrowProof uint8             `json:"escrow_proof"`
	Amount      uint64            `json:"amount"`
	State       safepay.Address   `json:"state"`
	Escrow      safepay.Address   `json:"escrow"`
	Mint        safepay.Address   `json:"mint"`
	Sender      safepay.Address   `json:"sender"`
	Receiver    safepay.Address   `json:"receiver"`
	Source      safepay.Address   `json:"source"`
}

func (CreateGrantMsg) Path() string {
	return "grant/create"
}

func (m *CreateGrantMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", ErrInvalidAmount, "must be positive"))
	}
	errs = errors.Append(errs, validateAccounts(m.State, m.Escrow, m.Mint, m.Sender, m.Receiver))
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	return errs
}

func (m *CreateGrantMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *CreateGrantMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// CompleteGrantMsg releases the deposit to the Destination account of the
// receiver. An empty Destination means the associated account of the
// receiver, created if needed.
type CompleteGrantMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	UID         uint64            `json:"uid"`
	StateProof  uint8             `json:"state_proof"`
	EscrowProof uint8             `json:"escrow_proof"`
	State       safepay.Address   `json:"state"`
	Escrow      safepay.Address   `json:"escrow"`
	Mint        safepay.Address   `json:"mint"`
	Sender      safepay.Address   `json:"sender"`
	Receiver    safepay.Address   `json:"receiver"`
	Destination safepay.Address   `json:"destination,omitempty"`
}

func (CompleteGrantMsg) Path() string {
	return "grant/complete"
}

func (m *CompleteGrantMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateAccounts(m.State, m.Escrow, m.Mint, m.Sender, m.Receiver))
	if len(m.Destination) != 0 {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	return errs
}

func (m *CompleteGrantMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *CompleteGrantMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// CancelGrantMsg returns the deposit to the Refund account of the sender.
type CancelGrantMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	UID         uint64            `json:"uid"`
	StateProof  uint8             `json:"state_proof"`
	EscrowProof uint8             `json:"escrow_proof"`
	State       safepay.Address   `json:"state"`
	Escrow      safepay.Address   `json:"escrow"`
	Mint        safepay.Address   `json:"mint"`
	Sender      safepay.Address   `json:"sender"`
	Receiver    safepay.Address   `json:"receiver"`
	Refund      safepay.Address   `json:"refund"`
}

func (CancelGrantMsg) Path() string {
	return "grant/cancel"
}

func (m *CancelGrantMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.Append(errs, validateAccounts(m.State, m.Escrow, m.Mint, m.Sender, m.Receiver))
	errs = errors.AppendField(errs, "Refund", m.Refund.Validate())
	return errs
}

func (m *CancelGrantMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *CancelGrantMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

func validateAccounts(state, escrow, mint, sender, receiver safepay.Address) error {
	var errs error
	errs = errors.AppendField(errs, "State", state.Validate())
	errs = errors.AppendField(errs, "Escrow", escrow.Validate())
	errs = errors.AppendField(errs, "Mint", mint.Validate())
	errs = errors.AppendField(errs, "Sender", sender.Validate())
	errs = errors.AppendField(errs, "Receiver", receiver.Validate())
	return errs
}
