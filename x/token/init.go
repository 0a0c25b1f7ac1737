package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

const optKey = "token"

// GenesisMint declares a token type in the genesis file.
type GenesisMint struct {
	Address   safepay.Address `json:"address"`
	Symbol    string          `json:"symbol"`
	Decimals  int32           `json:"decimals"`
	Authority safepay.Address `json:"authority"`
}

// GenesisAccount declares a funded associated account. Genesis accounts
// carry no reserve.
type GenesisAccount struct {
	Owner  safepay.Address `json:"owner"`
	Mint   safepay.Address `json:"mint"`
	Amount uint64          `json:"amount"`
}

// Genesis is the content of the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ safepay.Initializer = Initializer{}

// FromGenesis creates mints and pre-funded accounts. The configuration is
// optional, without it accounts are free.
func (Initializer) FromGenesis(opts safepay.Options, db safepay.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, m := range gen.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		mint := AsMint(NewMint(m.Address, m.Symbol, m.Decimals, m.Authority))
		if err := mints.Put(db, m.Address, mint); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}

	accounts := NewAccountBucket()
	for i, a := range gen.Accounts {
		m, err := mints.GetMint(db, a.Mint)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		key := AssociatedAddress(a.Owner, a.Mint)
		switch exists, err := accounts.Has(db, key); {
		case err != nil:
			return err
		case exists:
			return errors.Wrapf(errors.ErrDuplicate, "account %d", i)
		}
		acc := &Account{
			Metadata:  &safepay.Metadata{Schema: 1},
			Mint:      a.Mint,
			Owner:     a.Owner,
			Authority: a.Owner,
		}
		if err := issue(db, mints, accounts, key, acc, m, a.Amount); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	var conf Configuration
	if err := gconf.InitConfig(db, opts, GconfPkg, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}
