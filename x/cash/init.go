package cash

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use safepay.Address, so address in hex, not base64
type GenesisAccount struct {
	Address safepay.Address `json:"address"`
	Coins   []*coin.Coin    `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ safepay.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database. The configuration is optional.
func (Initializer) FromGenesis(opts safepay.Options, db safepay.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		wallet, err := WalletWith(acct.Address, acct.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(db, wallet); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	var conf Configuration
	if err := gconf.InitConfig(db, opts, GconfPkg, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}
