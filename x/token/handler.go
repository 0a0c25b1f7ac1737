package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

const (
	createAccountCost int64 = 100
	transferCost      int64 = 50
	closeAccountCost  int64 = 50
	mintToCost        int64 = 50
)

// RegisterQuery registers mints under "/mints" and accounts under
// "/tokaccs".
func RegisterQuery(qr safepay.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewAccountBucket().Register("tokaccs", qr)
}

// RegisterRoutes registers handlers for all token messages. Authorization is
// enforced by the ledger.
func RegisterRoutes(r safepay.Registry, ledger Ledger) {
	r.Handle(CreateAccountMsg{}.Path(), &CreateAccountHandler{ledger: ledger})
	r.Handle(TransferMsg{}.Path(), &TransferHandler{ledger: ledger})
	r.Handle(CloseAccountMsg{}.Path(), &CloseAccountHandler{ledger: ledger})
	r.Handle(MintToMsg{}.Path(), &MintToHandler{ledger: ledger})
}

// CreateAccountHandler creates associated token accounts.
type CreateAccountHandler struct {
	ledger Ledger
}

var _ safepay.Handler = (*CreateAccountHandler)(nil)

func (h *CreateAccountHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	var msg CreateAccountMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return safepay.NewCheck(createAccountCost, ""), nil
}

func (h *CreateAccountHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	var msg CreateAccountMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	key := AssociatedAddress(msg.Owner, msg.Mint)
	if _, err := h.ledger.CreateAccount(ctx, db, key, msg.Mint, msg.Owner, msg.Owner, msg.Payer); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{Data: key}, nil
}

// TransferHandler moves tokens between user accounts.
type TransferHandler struct {
	ledger Ledger
}

var _ safepay.Handler = (*TransferHandler)(nil)

func (h *TransferHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return safepay.NewCheck(transferCost, ""), nil
}

func (h *TransferHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Transfer(ctx, db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{}, nil
}

func (h *TransferHandler) validate(db safepay.ReadOnlyKVStore, tx safepay.Tx) (*TransferMsg, error) {
	var msg TransferMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireAssociated(db, h.ledger, msg.Destination); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CloseAccountHandler deletes empty accounts.
type CloseAccountHandler struct {
	ledger Ledger
}

var _ safepay.Handler = (*CloseAccountHandler)(nil)

func (h *CloseAccountHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	var msg CloseAccountMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return safepay.NewCheck(closeAccountCost, ""), nil
}

func (h *CloseAccountHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	var msg CloseAccountMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := h.ledger.CloseAccount(ctx, db, msg.Account, msg.ReserveReceiver); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{}, nil
}

// MintToHandler issues new tokens.
type MintToHandler struct {
	ledger Ledger
}

var _ safepay.Handler = (*MintToHandler)(nil)

func (h *MintToHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return safepay.NewCheck(mintToCost, ""), nil
}

func (h *MintToHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.MintTo(ctx, db, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &safepay.DeliverResult{}, nil
}

func (h *MintToHandler) validate(db safepay.ReadOnlyKVStore, tx safepay.Tx) (*MintToMsg, error) {
	var msg MintToMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := requireAssociated(db, h.ledger, msg.Destination); err != nil {
		return nil, err
	}
	return &msg, nil
}

// requireAssociated fails unless key is the associated account of its owner.
// Messages can credit only those. Any other account, like a grant holding
// account, is funded by the extension that created it.
func requireAssociated(db safepay.ReadOnlyKVStore, ledger Ledger, key safepay.Address) error {
	acc, err := ledger.Account(db, key)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !key.Equals(AssociatedAddress(acc.Owner, acc.Mint)) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an associated account", key)
	}
	return nil
}
