package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

var (
	_ safepay.Msg = (*CreateAccountMsg)(nil)
	_ safepay.Msg = (*TransferMsg)(nil)
	_ safepay.Msg = (*CloseAccountMsg)(nil)
	_ safepay.Msg = (*MintToMsg)(nil)
)

// CreateAccountMsg creates the associated account of Owner for Mint. The
// reserve is charged from Payer.
type CreateAccountMsg struct {
	Metadata *safepay.Metadata `json:"metadata"`
	Mint     safepay.Address   `json:"mint"`
	Owner    safepay.Address   `json:"owner"`
	Payer    safepay.Address   `json:"payer"`
}

func (CreateAccountMsg) Path() string {
	return "token/create_account"
}

func (m *CreateAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Payer", m.Payer.Validate())
	return errs
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// TransferMsg moves tokens between two accounts of the same mint.
type TransferMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	Source      safepay.Address   `json:"source"`
	Destination safepay.Address   `json:"destination"`
	Amount      uint64            `json:"amount"`
}

func (TransferMsg) Path() string {
	return "token/transfer"
}

func (m *TransferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Source", m.Source.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *TransferMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *TransferMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// CloseAccountMsg deletes an empty account. The reserve goes to
// ReserveReceiver.
type CloseAccountMsg struct {
	Metadata        *safepay.Metadata `json:"metadata"`
	Account         safepay.Address   `json:"account"`
	ReserveReceiver safepay.Address   `json:"reserve_receiver"`
}

func (CloseAccountMsg) Path() string {
	return "token/close_account"
}

func (m *CloseAccountMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Account", m.Account.Validate())
	errs = errors.AppendField(errs, "ReserveReceiver", m.ReserveReceiver.Validate())
	return errs
}

func (m *CloseAccountMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *CloseAccountMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// MintToMsg issues new tokens. It must be signed by the mint authority.
type MintToMsg struct {
	Metadata    *safepay.Metadata `json:"metadata"`
	Destination safepay.Address   `json:"destination"`
	Amount      uint64            `json:"amount"`
}

func (MintToMsg) Path() string {
	return "token/mint"
}

func (m *MintToMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *MintToMsg) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *MintToMsg) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}
