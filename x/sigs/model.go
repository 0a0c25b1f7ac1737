package sigs

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/crypto"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// BucketName is the bucket of UserData, keyed by public key address.
const BucketName = "sigs"

// maxSequenceValue is Number.MAX_SAFE_INTEGER, the greatest nonce a
// javascript client handles without loss.
const maxSequenceValue = 1<<53 - 1

// UserData is the replay protection state of a signer. Sequence is the
// value expected in the next signature.
type UserData struct {
	Metadata *safepay.Metadata `json:"metadata"`
	Pubkey   *crypto.PublicKey `json:"pubkey"`
	Sequence int64             `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	errs := errors.AppendField(nil, "Metadata", u.Metadata.Validate())
	switch {
	case u.Sequence < 0:
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	case u.Sequence > 0 && u.Pubkey == nil:
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, u)
}

// CheckAndIncrementSequence consumes the expected sequence.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// userBucket stores UserData under the address of its public key.
type userBucket struct {
	orm.Bucket
}

func newUserBucket() userBucket {
	proto := orm.NewSimpleObj(nil, &UserData{})
	return userBucket{Bucket: orm.NewBucket(BucketName, proto)}
}

// user returns the stored data of the key owner or nil.
func (b userBucket) user(db safepay.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil || obj == nil {
		return nil, err
	}
	u, ok := obj.Value().(*UserData)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return u, nil
}

// userOrNew is user with a fresh, zero sequence, UserData for unknown keys.
func (b userBucket) userOrNew(db safepay.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	u, err := b.user(db, pubkey)
	if err != nil || u != nil {
		return u, err
	}
	return &UserData{Metadata: &safepay.Metadata{Schema: 1}, Pubkey: pubkey}, nil
}

func (b userBucket) save(db safepay.KVStore, u *UserData) error {
	return b.Save(db, orm.NewSimpleObj(u.Pubkey.Address(), u))
}
