package token

import (
	"math"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/x"
	"github.com/iov-one/safepay/x/cash"
)

// Ledger is the token functionality other extensions build on. Every
// mutation is gated by an authority that must be present in the context.
type Ledger interface {
	// Account returns the token account stored under given address.
	Account(db safepay.ReadOnlyKVStore, key safepay.Address) (*Account, error)

	// CreateAccount stores a new empty account under given address,
	// charging the reserve from the payer.
	CreateAccount(ctx safepay.Context, db safepay.KVStore, key, mint, owner, authority, payer safepay.Address) (*Account, error)

	// EnsureAssociatedAccount returns the associated account of the
	// owner, creating it if it does not exist yet.
	EnsureAssociatedAccount(ctx safepay.Context, db safepay.KVStore, owner, mint, payer safepay.Address) (safepay.Address, *Account, error)

	// Transfer moves amount between two accounts of the same mint.
	Transfer(ctx safepay.Context, db safepay.KVStore, from, to safepay.Address, amount uint64) error

	// CloseAccount deletes an empty account, returning the reserve.
	CloseAccount(ctx safepay.Context, db safepay.KVStore, key, reserveReceiver safepay.Address) error

	// MintTo issues new tokens into an account.
	MintTo(ctx safepay.Context, db safepay.KVStore, key safepay.Address, amount uint64) error
}

// Controller is the default Ledger implementation.
type Controller struct {
	auth     x.Authenticator
	cash     cash.Controller
	mints    *MintBucket
	accounts *AccountBucket
}

var _ Ledger = (*Controller)(nil)

// NewController returns a ledger that checks authorities with auth and
// charges account reserves using the cash controller.
func NewController(auth x.Authenticator, cashCtrl cash.Controller) *Controller {
	return &Controller{
		auth:     auth,
		cash:     cashCtrl,
		mints:    NewMintBucket(),
		accounts: NewAccountBucket(),
	}
}

func (c *Controller) Account(db safepay.ReadOnlyKVStore, key safepay.Address) (*Account, error) {
	return c.accounts.GetAccount(db, key)
}

func (c *Controller) CreateAccount(
	ctx safepay.Context,
	db safepay.KVStore,
	key, mint, owner, authority, payer safepay.Address,
) (*Account, error) {
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	switch exists, err := c.accounts.Has(db, key); {
	case err != nil:
		return nil, err
	case exists:
		return nil, errors.Wrapf(errors.ErrDuplicate, "token account %s", key)
	}
	if _, err := c.mints.GetMint(db, mint); err != nil {
		return nil, err
	}

	reserve, err := accountReserve(db)
	if err != nil {
		return nil, err
	}
	acc := &Account{
		Metadata:  &safepay.Metadata{Schema: 1},
		Mint:      mint,
		Owner:     owner,
		Authority: authority,
	}
	if reserve.IsPositive() {
		if err := x.RequireSigner(ctx, c.auth, payer, "reserve payer"); err != nil {
			return nil, err
		}
		if err := c.cash.MoveCoins(db, payer, key, reserve); err != nil {
			return nil, errors.Wrap(err, "pay reserve")
		}
		acc.Reserve = &reserve
		acc.ReservePayer = payer
	}
	if err := c.accounts.Put(db, key, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (c *Controller) EnsureAssociatedAccount(
	ctx safepay.Context,
	db safepay.KVStore,
	owner, mint, payer safepay.Address,
) (safepay.Address, *Account, error) {
	key := AssociatedAddress(owner, mint)
	obj, err := c.accounts.Get(db, key)
	if err != nil {
		return nil, nil, err
	}
	if obj != nil {
		return key, AsAccount(obj), nil
	}
	acc, err := c.CreateAccount(ctx, db, key, mint, owner, owner, payer)
	if err != nil {
		return nil, nil, err
	}
	return key, acc, nil
}

func (c *Controller) Transfer(ctx safepay.Context, db safepay.KVStore, from, to safepay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "transfer amount must be positive")
	}
	src, err := c.accounts.GetAccount(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if err := x.RequireSigner(ctx, c.auth, src.Authority, "source authority"); err != nil {
		return err
	}
	dst, err := c.accounts.GetAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if !src.Mint.Equals(dst.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "account %s holds %d, want %d", from, src.Amount, amount)
	}
	if from.Equals(to) {
		return nil
	}
	if dst.Amount > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	src.Amount -= amount
	dst.Amount += amount
	if err := c.accounts.Put(db, from, src); err != nil {
		return err
	}
	return c.accounts.Put(db, to, dst)
}

func (c *Controller) CloseAccount(ctx safepay.Context, db safepay.KVStore, key, reserveReceiver safepay.Address) error {
	acc, err := c.accounts.GetAccount(db, key)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, c.auth, acc.Authority, "account authority"); err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "account %s holds %d tokens", key, acc.Amount)
	}
	if err := reserveReceiver.Validate(); err != nil {
		return errors.Wrap(err, "reserve receiver")
	}
	if !coin.IsEmpty(acc.Reserve) {
		if err := c.cash.MoveCoins(db, key, reserveReceiver, *acc.Reserve); err != nil {
			return errors.Wrap(err, "return reserve")
		}
	}
	return c.accounts.Delete(db, key)
}

func (c *Controller) MintTo(ctx safepay.Context, db safepay.KVStore, key safepay.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "mint amount must be positive")
	}
	acc, err := c.accounts.GetAccount(db, key)
	if err != nil {
		return err
	}
	m, err := c.mints.GetMint(db, acc.Mint)
	if err != nil {
		return err
	}
	if err := x.RequireSigner(ctx, c.auth, m.Authority, "mint authority"); err != nil {
		return err
	}
	return issue(db, c.mints, c.accounts, key, acc, m, amount)
}

// issue increases both the account balance and the mint supply.
func issue(db safepay.KVStore, mints *MintBucket, accounts *AccountBucket, key safepay.Address, acc *Account, m *Mint, amount uint64) error {
	if m.Supply > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "supply")
	}
	m.Supply += amount
	acc.Amount += amount
	if err := mints.Put(db, acc.Mint, m); err != nil {
		return err
	}
	return accounts.Put(db, key, acc)
}
