package cash

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet.
type Set struct {
	Metadata *safepay.Metadata `json:"metadata"`
	Coins    coin.Coins        `json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order
func (s *Set) Validate() error {
	if err := s.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return s.Coins.Validate()
}

func (s *Set) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, s)
}

// NewWallet creates an empty wallet with this address
func NewWallet(key safepay.Address) orm.Object {
	return orm.NewSimpleObj(key, &Set{Metadata: &safepay.Metadata{Schema: 1}})
}

// WalletWith creates a wallet with the given coins. Coins are normalized.
func WalletWith(key safepay.Address, coins ...*coin.Coin) (orm.Object, error) {
	obj := NewWallet(key)
	set := AsSet(obj)
	for _, c := range coins {
		if c == nil {
			continue
		}
		cs, err := set.Coins.Add(*c)
		if err != nil {
			return nil, err
		}
		set.Coins = cs
	}
	return obj, nil
}

// AsSet will safely type-cast any value from Bucket to a Set
func AsSet(obj orm.Object) *Set {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Set)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// GetOrCreate returns the wallet stored under given address or a new empty
// one. The new wallet is not saved.
func (b Bucket) GetOrCreate(db safepay.KVStore, key safepay.Address) (orm.Object, error) {
	obj, err := b.Get(db, key)
	if err == nil && obj == nil {
		obj = NewWallet(key)
	}
	return obj, err
}

// Save stores the wallet, or deletes it when empty.
func (b Bucket) Save(db safepay.KVStore, obj orm.Object) error {
	if AsSet(obj).Coins.IsEmpty() {
		return b.Bucket.Delete(db, obj.Key())
	}
	return b.Bucket.Save(db, obj)
}
