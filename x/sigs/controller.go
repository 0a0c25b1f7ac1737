package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
)

// SignCodeV1 prefixes the bytes of every signature, versioning the format.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of the transaction and
// consumes the signer sequences. The conditions of all signers are returned
// in signature order.
func VerifyTxSignatures(db safepay.KVStore, tx SignedTx, chainID string) ([]safepay.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	var signers []safepay.Condition
	for i, sig := range tx.GetSignatures() {
		cond, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, cond)
	}
	return signers, nil
}

// VerifySignature checks a single signature of payload and increments the
// sequence of the signer.
func VerifySignature(db safepay.KVStore, sig *StdSignature, payload []byte, chainID string) (safepay.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !sig.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	users := newUserBucket()
	user, err := users.userOrNew(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.save(db, user); err != nil {
		return nil, err
	}
	return sig.Pubkey.Condition(), nil
}

// NextSequence returns the sequence a signer must use for the next
// transaction. Unknown signers start at zero.
func NextSequence(db safepay.ReadOnlyKVStore, pubkey *crypto.PublicKey) (int64, error) {
	user, err := newUserBucket().user(db, pubkey)
	if err != nil || user == nil {
		return 0, err
	}
	return user.Sequence, nil
}

/*
BuildSignBytes returns the sha512 digest that is signed for a transaction:

  version | len(chainID) | chainID | sequence         | payload
  4 bytes | uint8        | ascii   | int64 big endian | serialized tx
*/
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !safepay.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{uint8(len(chainID))})
	h.Write([]byte(chainID))
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))
	h.Write(nonce[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// SignTx signs the transaction for the chain with given sequence.
func SignTx(signer *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: sig, Sequence: seq}, nil
}
