package safepayd

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x/cash"
	"github.com/iov-one/safepay/x/grant"
	"github.com/iov-one/safepay/x/sigs"
	"github.com/iov-one/safepay/x/token"
)

// Tx is the transaction envelope accepted by the application. Exactly one
// of the message fields must be set.
type Tx struct {
	SendMsg          *cash.SendMsg           `json:"send_msg,omitempty"`
	CreateAccountMsg *token.CreateAccountMsg `json:"create_account_msg,omitempty"`
	TransferMsg      *token.TransferMsg      `json:"transfer_msg,omitempty"`
	CloseAccountMsg  *token.CloseAccountMsg  `json:"close_account_msg,omitempty"`
	MintToMsg        *token.MintToMsg        `json:"mint_to_msg,omitempty"`
	CreateGrantMsg   *grant.CreateGrantMsg   `json:"create_grant_msg,omitempty"`
	CompleteGrantMsg *grant.CompleteGrantMsg `json:"complete_grant_msg,omitempty"`
	CancelGrantMsg   *grant.CancelGrantMsg   `json:"cancel_grant_msg,omitempty"`

	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (safepay.Tx, error) {
	tx := new(Tx)
	err := tx.Unmarshal(bz)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ safepay.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (safepay.Msg, error) {
	var msgs []safepay.Msg
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	if tx.CreateAccountMsg != nil {
		msgs = append(msgs, tx.CreateAccountMsg)
	}
	if tx.TransferMsg != nil {
		msgs = append(msgs, tx.TransferMsg)
	}
	if tx.CloseAccountMsg != nil {
		msgs = append(msgs, tx.CloseAccountMsg)
	}
	if tx.MintToMsg != nil {
		msgs = append(msgs, tx.MintToMsg)
	}
	if tx.CreateGrantMsg != nil {
		msgs = append(msgs, tx.CreateGrantMsg)
	}
	if tx.CompleteGrantMsg != nil {
		msgs = append(msgs, tx.CompleteGrantMsg)
	}
	if tx.CancelGrantMsg != nil {
		msgs = append(msgs, tx.CancelGrantMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%d messages in one transaction", len(msgs))
	}
}

// SetMsg sets the message field matching the type of msg. Any previously
// set message is cleared.
func (tx *Tx) SetMsg(msg safepay.Msg) error {
	tx.SendMsg = nil
	tx.CreateAccountMsg = nil
	tx.TransferMsg = nil
	tx.CloseAccountMsg = nil
	tx.MintToMsg = nil
	tx.CreateGrantMsg = nil
	tx.CompleteGrantMsg = nil
	tx.CancelGrantMsg = nil

	switch m := msg.(type) {
	case *cash.SendMsg:
		tx.SendMsg = m
	case *token.CreateAccountMsg:
		tx.CreateAccountMsg = m
	case *token.TransferMsg:
		tx.TransferMsg = m
	case *token.CloseAccountMsg:
		tx.CloseAccountMsg = m
	case *token.MintToMsg:
		tx.MintToMsg = m
	case *grant.CreateGrantMsg:
		tx.CreateGrantMsg = m
	case *grant.CompleteGrantMsg:
		tx.CompleteGrantMsg = m
	case *grant.CancelGrantMsg:
		tx.CancelGrantMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns the signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrInput, "empty transaction")
	}
	if err := safepay.UnmarshalBinary(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
