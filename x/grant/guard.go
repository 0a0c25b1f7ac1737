package grant

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/token"
)

// addresses is what every grant operation carries to identify the grant.
type addresses struct {
	UID         uint64
	StateProof  uint8
	EscrowProof uint8
	State       safepay.Address
	Escrow      safepay.Address
	Mint        safepay.Address
	Sender      safepay.Address
	Receiver    safepay.Address
}

// derived holds the conditions recomputed from the supplied addresses.
type derived struct {
	state  safepay.Condition
	escrow safepay.Condition
}

// verifyDerivation recomputes both addresses with the supplied proofs and
// requires them to match the supplied accounts.
func verifyDerivation(a addresses) (*derived, error) {
	seeds := Seeds(a.Sender, a.Receiver, a.Mint, a.UID)
	stateCond, state, err := CreateAddress(StateTag, seeds, a.StateProof)
	if err != nil {
		return nil, errors.Wrap(ErrAddressMismatch, err.Error())
	}
	if !state.Equals(a.State) {
		return nil, errors.Wrapf(ErrAddressMismatch, "state: derived %s, got %s", state, a.State)
	}
	escrowCond, escrow, err := CreateAddress(WalletTag, seeds, a.EscrowProof)
	if err != nil {
		return nil, errors.Wrap(ErrAddressMismatch, err.Error())
	}
	if !escrow.Equals(a.Escrow) {
		return nil, errors.Wrapf(ErrAddressMismatch, "escrow: derived %s, got %s", escrow, a.Escrow)
	}
	return &derived{state: stateCond, escrow: escrowCond}, nil
}

// verifyCanonical requires both proofs to be the ones FindAddress returns.
// Otherwise a second proof would open a second grant for the same index.
func verifyCanonical(a addresses) error {
	seeds := Seeds(a.Sender, a.Receiver, a.Mint, a.UID)
	for _, p := range []struct {
		tag   string
		proof uint8
	}{
		{StateTag, a.StateProof},
		{WalletTag, a.EscrowProof},
	} {
		_, _, canonical, err := FindAddress(p.tag, seeds)
		if err != nil {
			return err
		}
		if canonical != p.proof {
			return errors.Wrapf(ErrAddressMismatch, "%s proof %d is not canonical", p.tag, p.proof)
		}
	}
	return nil
}

// verifyRecord requires the supplied accounts and proofs to match the
// stored grant.
func verifyRecord(g *Grant, a addresses) error {
	switch {
	case !g.Sender.Equals(a.Sender):
		return errors.Wrap(ErrAddressMismatch, "sender")
	case !g.Receiver.Equals(a.Receiver):
		return errors.Wrap(ErrAddressMismatch, "receiver")
	case !g.Mint.Equals(a.Mint):
		return errors.Wrap(ErrAddressMismatch, "mint")
	case !g.Escrow.Equals(a.Escrow):
		return errors.Wrap(ErrAddressMismatch, "escrow")
	case g.UID != a.UID:
		return errors.Wrap(ErrAddressMismatch, "uid")
	case g.StateProof != a.StateProof || g.EscrowProof != a.EscrowProof:
		return errors.Wrap(ErrAddressMismatch, "proof")
	}
	return nil
}

// verifySigner requires the role to be signed by the given address.
func verifySigner(ctx safepay.Context, auth x.Authenticator, addr safepay.Address, role string) error {
	if !auth.HasAddress(ctx, addr) {
		return errors.Wrapf(ErrUnauthorized, "%s signature missing", role)
	}
	return nil
}

// verifyTokenAccount requires the token account to hold the grant mint and,
// if owner is given, to belong to owner.
func verifyTokenAccount(acc *token.Account, mint, owner safepay.Address, name string) error {
	if !acc.Mint.Equals(mint) {
		return errors.Wrapf(ErrAddressMismatch, "%s account mint %s, want %s", name, acc.Mint, mint)
	}
	if owner != nil && !acc.Owner.Equals(owner) {
		return errors.Wrapf(ErrUnauthorized, "%s account is not owned by %s", name, owner)
	}
	return nil
}
