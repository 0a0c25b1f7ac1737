package cash

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
)

// Controller is the functionality needed by cash.Handler and other
// extensions that move native coins.
type Controller interface {
	Balance(safepay.ReadOnlyKVStore, safepay.Address) (coin.Coins, error)
	MoveCoins(safepay.KVStore, safepay.Address, safepay.Address, coin.Coin) error
	IssueCoins(safepay.KVStore, safepay.Address, coin.Coin) error
}

// BaseController is a simple implementation of Controller backed by a
// wallet bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the coins stored under given address. ErrNotFound is
// returned for an address without a wallet.
func (c BaseController) Balance(db safepay.ReadOnlyKVStore, addr safepay.Address) (coin.Coins, error) {
	obj, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "wallet %s", addr)
	}
	return AsSet(obj).Coins.Clone(), nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db safepay.KVStore, src, dest safepay.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive move: %s", amount)
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "empty wallet %s", src)
	}
	from := AsSet(sender)
	if !from.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet %s cannot pay %s", src, amount)
	}
	if from.Coins, err = from.Coins.Subtract(amount); err != nil {
		return err
	}
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}

	// Load the recipient after saving the sender, so that moving to self is
	// a no-op.
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	to := AsSet(recipient)
	if to.Coins, err = to.Coins.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
//
// Note the amount may also be negative, but the wallet can never drop
// below zero.
func (c BaseController) IssueCoins(db safepay.KVStore, dest safepay.Address, amount coin.Coin) error {
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	set := AsSet(recipient)
	if set.Coins, err = set.Coins.Add(amount); err != nil {
		return err
	}
	if !set.Coins.IsNonNegative() {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet %s cannot go below zero", dest)
	}
	return c.bucket.Save(db, recipient)
}
