package grant

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

const (
	// ExtensionName is used for the conditions of derived addresses.
	ExtensionName = "grant"

	// StateTag derives the address of the grant record.
	StateTag = "state"
	// WalletTag derives the address of the holding account.
	WalletTag = "wallet"

	// MaxProof is where the proof search starts.
	MaxProof = 255

	derivedMarker = "DerivedAddress"
)

// CreateAddress returns the condition and the address derived from seeds
// with a known proof. It fails with ErrInvalidProof if the derived digest
// is a valid ed25519 point, because a private key could exist for it.
func CreateAddress(tag string, seeds [][]byte, proof uint8) (safepay.Condition, safepay.Address, error) {
	h := sha256.New()
	h.Write([]byte(tag))
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{proof})
	h.Write([]byte(ExtensionName))
	h.Write([]byte(derivedMarker))
	digest := h.Sum(nil)

	if isOnCurve(digest) {
		return nil, nil, errors.Wrapf(ErrInvalidProof, "proof %d", proof)
	}
	cond := safepay.NewCondition(ExtensionName, tag, digest)
	return cond, cond.Address(), nil
}

// FindAddress searches for the canonical proof, counting down from
// MaxProof. The first proof that yields an off curve digest wins.
func FindAddress(tag string, seeds [][]byte) (safepay.Condition, safepay.Address, uint8, error) {
	for p := MaxProof; p >= 0; p-- {
		cond, addr, err := CreateAddress(tag, seeds, uint8(p))
		switch {
		case err == nil:
			return cond, addr, uint8(p), nil
		case !ErrInvalidProof.Is(err):
			return nil, nil, 0, err
		}
	}
	return nil, nil, 0, errors.Wrap(ErrInvalidProof, "no viable proof")
}

func isOnCurve(digest []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(digest)
	return err == nil
}

// Seeds returns the derivation seeds of a grant.
func Seeds(sender, receiver, mint safepay.Address, uid uint64) [][]byte {
	idx := make([]byte, 8)
	binary.LittleEndian.PutUint64(idx, uid)
	return [][]byte{sender, receiver, mint, idx}
}

// Derivation holds both derived addresses of a grant together with their
// canonical proofs.
type Derivation struct {
	State       safepay.Address   `json:"state"`
	StateProof  uint8             `json:"state_proof"`
	Escrow      safepay.Address   `json:"escrow"`
	EscrowProof uint8             `json:"escrow_proof"`
	StateCond   safepay.Condition `json:"-"`
	EscrowCond  safepay.Condition `json:"-"`
}

// Derive computes the addresses of a grant. It needs no secrets and is
// meant to be called off-chain before submitting a transaction.
func Derive(sender, receiver, mint safepay.Address, uid uint64) (*Derivation, error) {
	seeds := Seeds(sender, receiver, mint, uid)
	stateCond, state, stateProof, err := FindAddress(StateTag, seeds)
	if err != nil {
		return nil, errors.Wrap(err, "state")
	}
	escrowCond, escrow, escrowProof, err := FindAddress(WalletTag, seeds)
	if err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	return &Derivation{
		State:       state,
		StateProof:  stateProof,
		Escrow:      escrow,
		EscrowProof: escrowProof,
		StateCond:   stateCond,
		EscrowCond:  escrowCond,
	}, nil
}
