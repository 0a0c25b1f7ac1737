package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/orm"
)

const (
	// MintBucketName is where token types are stored.
	MintBucketName = "mint"
	// AccountBucketName is where token accounts are stored.
	AccountBucketName = "tokacc"

	maxDecimals = 18
)

// Mint describes a token type. It is stored under the mint address.
type Mint struct {
	Metadata *safepay.Metadata `json:"metadata"`
	Symbol   string            `json:"symbol"`
	Decimals int32             `json:"decimals"`
	// Authority can issue new tokens of this mint.
	Authority safepay.Address `json:"authority"`
	Supply    uint64          `json:"supply"`
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if !coin.IsCC(m.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrCurrency, "invalid symbol %q", m.Symbol))
	}
	if m.Decimals < 0 || m.Decimals > maxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "must be between 0 and %d", maxDecimals))
	}
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *Mint) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(m)
}

func (m *Mint) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, m)
}

// Account holds the balance of a single mint.
type Account struct {
	Metadata  *safepay.Metadata `json:"metadata"`
	Mint      safepay.Address   `json:"mint"`
	Owner     safepay.Address   `json:"owner"`
	Authority safepay.Address   `json:"authority"`
	Amount    uint64            `json:"amount"`
	// Reserve is the amount of native coins charged on creation, kept at the
	// account address until it is closed.
	Reserve      *coin.Coin      `json:"reserve,omitempty"`
	ReservePayer safepay.Address `json:"reserve_payer,omitempty"`
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", a.Metadata.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	errs = errors.AppendField(errs, "Authority", a.Authority.Validate())
	if !coin.IsEmpty(a.Reserve) {
		if err := a.Reserve.Validate(); err != nil {
			errs = errors.AppendField(errs, "Reserve", err)
		} else if !a.Reserve.IsPositive() {
			errs = errors.Append(errs, errors.Field("Reserve", errors.ErrAmount, "must be positive"))
		}
		errs = errors.AppendField(errs, "ReservePayer", a.ReservePayer.Validate())
	}
	return errs
}

func (a *Account) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, a)
}

// AssociatedAddress returns the address of the default account of an owner
// for given mint.
func AssociatedAddress(owner, mint safepay.Address) safepay.Address {
	seed := make([]byte, 0, len(owner)+len(mint))
	seed = append(seed, owner...)
	seed = append(seed, mint...)
	return safepay.NewCondition("token", "associated", seed).Address()
}

// NewMint returns a mint object stored under given address.
func NewMint(key safepay.Address, symbol string, decimals int32, authority safepay.Address) orm.Object {
	return orm.NewSimpleObj(key, &Mint{
		Metadata:  &safepay.Metadata{Schema: 1},
		Symbol:    symbol,
		Decimals:  decimals,
		Authority: authority,
	})
}

// AsMint will safely type-cast any value from MintBucket to a Mint.
func AsMint(obj orm.Object) *Mint {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Mint)
}

// MintBucket stores token types.
type MintBucket struct {
	orm.Bucket
}

// NewMintBucket returns a bucket for storing Mint entities.
func NewMintBucket() *MintBucket {
	return &MintBucket{
		Bucket: orm.NewBucket(MintBucketName, NewMint(nil, "", 0, nil)),
	}
}

// GetMint returns the mint stored under given address. ErrNotFound is
// returned if there is no such mint.
func (b *MintBucket) GetMint(db safepay.ReadOnlyKVStore, key safepay.Address) (*Mint, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "mint %s", key)
	}
	return AsMint(obj), nil
}

// Put saves the mint under given address.
func (b *MintBucket) Put(db safepay.KVStore, key safepay.Address, m *Mint) error {
	return b.Save(db, orm.NewSimpleObj(key, m))
}

// NewAccount returns an account object stored under given address.
func NewAccount(key safepay.Address, a *Account) orm.Object {
	if a == nil {
		a = &Account{Metadata: &safepay.Metadata{Schema: 1}}
	}
	return orm.NewSimpleObj(key, a)
}

// AsAccount will safely type-cast any value from AccountBucket to an
// Account.
func AsAccount(obj orm.Object) *Account {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Account)
}

// AccountBucket stores token accounts. Accounts are indexed by the owner and
// by the mint.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns a bucket for storing Account entities.
func NewAccountBucket() *AccountBucket {
	b := orm.NewBucket(AccountBucketName, NewAccount(nil, nil)).
		WithIndex("owner", ownerIndex, false).
		WithIndex("mint", mintIndex, false)
	return &AccountBucket{Bucket: b}
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	a := AsAccount(obj)
	if a == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a.Owner, nil
}

func mintIndex(obj orm.Object) ([]byte, error) {
	a := AsAccount(obj)
	if a == nil {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a.Mint, nil
}

// GetAccount returns the account stored under given address. ErrNotFound is
// returned if there is no such account.
func (b *AccountBucket) GetAccount(db safepay.ReadOnlyKVStore, key safepay.Address) (*Account, error) {
	obj, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "token account %s", key)
	}
	return AsAccount(obj), nil
}

// Put saves the account under given address.
func (b *AccountBucket) Put(db safepay.KVStore, key safepay.Address, a *Account) error {
	return b.Save(db, orm.NewSimpleObj(key, a))
}

// ByOwner returns all accounts of given owner.
func (b *AccountBucket) ByOwner(db safepay.ReadOnlyKVStore, owner safepay.Address) ([]orm.Object, error) {
	return b.GetIndexed(db, "owner", owner)
}
