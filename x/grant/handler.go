package grant

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/token"
)

const (
	createGrantCost   int64 = 300
	completeGrantCost int64 = 200
	cancelGrantCost   int64 = 200
)

// RegisterQuery registers grants under "/grants".
func RegisterQuery(qr safepay.QueryRouter) {
	NewBucket().Register("grants", qr)
}

// RegisterRoutes registers handlers for grant message processing. The
// ledger must authenticate with both auth and Authenticate, so that the
// holding accounts accept the derived escrow authority.
func RegisterRoutes(r safepay.Registry, auth x.Authenticator, ledger token.Ledger) {
	bucket := NewBucket()
	r.Handle(CreateGrantMsg{}.Path(), &CreateGrantHandler{auth: auth, bucket: bucket, ledger: ledger})
	r.Handle(CompleteGrantMsg{}.Path(), &CompleteGrantHandler{auth: auth, bucket: bucket, ledger: ledger})
	r.Handle(CancelGrantMsg{}.Path(), &CancelGrantHandler{auth: auth, bucket: bucket, ledger: ledger})
}

// CreateGrantHandler funds a new grant.
type CreateGrantHandler struct {
	auth   x.Authenticator
	bucket *Bucket
	ledger token.Ledger
}

var _ safepay.Handler = (*CreateGrantHandler)(nil)

func (h *CreateGrantHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return safepay.NewCheck(createGrantCost, ""), nil
}

func (h *CreateGrantHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// The holding account is owned by the grant record and only the
	// escrow condition can move its tokens.
	if _, err := h.ledger.CreateAccount(ctx, db, msg.Escrow, msg.Mint, msg.State, msg.Escrow, msg.Sender); err != nil {
		return nil, errors.Wrap(err, "holding account")
	}
	if err := h.ledger.Transfer(ctx, db, msg.Source, msg.Escrow, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	g := &Grant{
		Metadata:    &safepay.Metadata{Schema: 1},
		UID:         msg.UID,
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
		Mint:        msg.Mint,
		Escrow:      msg.Escrow,
		Amount:      msg.Amount,
		Stage:       Funded,
		StateProof:  msg.StateProof,
		EscrowProof: msg.EscrowProof,
	}
	if err := h.bucket.Put(db, msg.State, g); err != nil {
		return nil, errors.Wrap(err, "save grant")
	}
	safepay.GetLogger(ctx).Info("grant funded", "grant", msg.State, "stage", g.Stage, "amount", g.Amount)
	return deliverResult(g)
}

func (h *CreateGrantHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*CreateGrantMsg, error) {
	var msg CreateGrantMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	a := addresses{
		UID:         msg.UID,
		StateProof:  msg.StateProof,
		EscrowProof: msg.EscrowProof,
		State:       msg.State,
		Escrow:      msg.Escrow,
		Mint:        msg.Mint,
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
	}
	if _, err := verifyDerivation(a); err != nil {
		return nil, err
	}
	if err := verifyCanonical(a); err != nil {
		return nil, err
	}
	if err := verifySigner(ctx, h.auth, msg.Sender, "sender"); err != nil {
		return nil, err
	}

	switch exists, err := h.bucket.Has(db, msg.State); {
	case err != nil:
		return nil, err
	case exists:
		return nil, errors.Wrapf(ErrAccountAlreadyExists, "grant %s", msg.State)
	}

	src, err := h.ledger.Account(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	// The balance is left to the ledger transfer.
	if err := verifyTokenAccount(src, msg.Mint, msg.Sender, "source"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// CompleteGrantHandler releases a funded grant to the receiver.
type CompleteGrantHandler struct {
	auth   x.Authenticator
	bucket *Bucket
	ledger token.Ledger
}

var _ safepay.Handler = (*CompleteGrantHandler)(nil)

func (h *CompleteGrantHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return safepay.NewCheck(completeGrantCost, ""), nil
}

func (h *CompleteGrantHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, g, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	dest := msg.Destination
	if len(dest) == 0 || dest.Equals(token.AssociatedAddress(msg.Receiver, msg.Mint)) {
		dest, _, err = h.ledger.EnsureAssociatedAccount(ctx, db, msg.Receiver, msg.Mint, msg.Receiver)
		if err != nil {
			return nil, errors.Wrap(err, "destination")
		}
	}
	if err := release(withAuthority(ctx, d.escrow), db, h.ledger, msg.Escrow, dest, g.Sender); err != nil {
		return nil, err
	}

	g.Stage = Completed
	if err := h.bucket.Put(db, msg.State, g); err != nil {
		return nil, errors.Wrap(err, "save grant")
	}
	safepay.GetLogger(ctx).Info("grant completed", "grant", msg.State, "stage", g.Stage, "amount", g.Amount)
	return deliverResult(g)
}

func (h *CompleteGrantHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*CompleteGrantMsg, *Grant, *derived, error) {
	var msg CompleteGrantMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	a := addresses{
		UID:         msg.UID,
		StateProof:  msg.StateProof,
		EscrowProof: msg.EscrowProof,
		State:       msg.State,
		Escrow:      msg.Escrow,
		Mint:        msg.Mint,
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
	}
	g, d, err := loadFunded(db, h.bucket, a)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := verifySigner(ctx, h.auth, msg.Receiver, "receiver"); err != nil {
		return nil, nil, nil, err
	}

	// A custom destination must already exist. The associated account is
	// created on delivery.
	if len(msg.Destination) != 0 && !msg.Destination.Equals(token.AssociatedAddress(msg.Receiver, msg.Mint)) {
		dst, err := h.ledger.Account(db, msg.Destination)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "destination")
		}
		if err := verifyTokenAccount(dst, msg.Mint, msg.Receiver, "destination"); err != nil {
			return nil, nil, nil, err
		}
	}
	return &msg, g, d, nil
}

// CancelGrantHandler returns a funded grant to the sender.
type CancelGrantHandler struct {
	auth   x.Authenticator
	bucket *Bucket
	ledger token.Ledger
}

var _ safepay.Handler = (*CancelGrantHandler)(nil)

func (h *CancelGrantHandler) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return safepay.NewCheck(cancelGrantCost, ""), nil
}

func (h *CancelGrantHandler) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*safepay.DeliverResult, error) {
	msg, g, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(withAuthority(ctx, d.escrow), db, h.ledger, msg.Escrow, msg.Refund, g.Sender); err != nil {
		return nil, err
	}

	g.Stage = Cancelled
	if err := h.bucket.Put(db, msg.State, g); err != nil {
		return nil, errors.Wrap(err, "save grant")
	}
	safepay.GetLogger(ctx).Info("grant cancelled", "grant", msg.State, "stage", g.Stage, "amount", g.Amount)
	return deliverResult(g)
}

func (h *CancelGrantHandler) validate(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx) (*CancelGrantMsg, *Grant, *derived, error) {
	var msg CancelGrantMsg
	if err := safepay.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	a := addresses{
		UID:         msg.UID,
		StateProof:  msg.StateProof,
		EscrowProof: msg.EscrowProof,
		State:       msg.State,
		Escrow:      msg.Escrow,
		Mint:        msg.Mint,
		Sender:      msg.Sender,
		Receiver:    msg.Receiver,
	}
	g, d, err := loadFunded(db, h.bucket, a)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := verifySigner(ctx, h.auth, msg.Sender, "sender"); err != nil {
		return nil, nil, nil, err
	}
	refund, err := h.ledger.Account(db, msg.Refund)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "refund")
	}
	if err := verifyTokenAccount(refund, msg.Mint, msg.Sender, "refund"); err != nil {
		return nil, nil, nil, err
	}
	return &msg, g, d, nil
}

// deliverResult carries the grant after the operation, so that clients do
// not need a separate query.
func deliverResult(g *Grant) (*safepay.DeliverResult, error) {
	raw, err := g.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal grant")
	}
	return &safepay.DeliverResult{Data: raw}, nil
}

// loadFunded returns the grant identified by a if the supplied addresses
// are consistent with it and it can still be settled.
func loadFunded(db safepay.ReadOnlyKVStore, bucket *Bucket, a addresses) (*Grant, *derived, error) {
	d, err := verifyDerivation(a)
	if err != nil {
		return nil, nil, err
	}
	g, err := bucket.GetGrant(db, a.State)
	if err != nil {
		return nil, nil, err
	}
	if err := verifyRecord(g, a); err != nil {
		return nil, nil, err
	}
	if g.Stage != Funded {
		return nil, nil, errors.Wrapf(ErrWrongStage, "grant is %s", g.Stage)
	}
	return g, d, nil
}

// release moves the whole holding balance to dest and closes the holding
// account, returning its reserve to reserveReceiver. ctx must carry the
// escrow authority.
func release(ctx safepay.Context, db safepay.KVStore, ledger token.Ledger, escrow, dest, reserveReceiver safepay.Address) error {
	holding, err := ledger.Account(db, escrow)
	if err != nil {
		return errors.Wrap(err, "holding account")
	}
	if holding.Amount > 0 {
		if err := ledger.Transfer(ctx, db, escrow, dest, holding.Amount); err != nil {
			return errors.Wrap(err, "release")
		}
	}
	if err := ledger.CloseAccount(ctx, db, escrow, reserveReceiver); err != nil {
		return errors.Wrap(err, "close holding account")
	}
	return nil
}
