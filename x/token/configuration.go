package token

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

// GconfPkg is the name under which the configuration is stored.
const GconfPkg = "token"

// Configuration of the token ledger.
type Configuration struct {
	Metadata *safepay.Metadata `json:"metadata"`
	Owner    safepay.Address   `json:"owner"`
	// AccountReserve is charged in cash from the payer of every new
	// token account. Zero means accounts are free.
	AccountReserve coin.Coin `json:"account_reserve"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if !c.AccountReserve.IsZero() {
		if err := c.AccountReserve.Validate(); err != nil {
			errs = errors.AppendField(errs, "AccountReserve", err)
		} else if !c.AccountReserve.IsPositive() {
			errs = errors.Append(errs, errors.Field("AccountReserve", errors.ErrAmount, "cannot be negative"))
		}
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, c)
}

// accountReserve returns the configured reserve or a zero coin if the ledger
// was never configured.
func accountReserve(db gconf.ReadStore) (coin.Coin, error) {
	var conf Configuration
	switch err := gconf.Load(db, GconfPkg, &conf); {
	case errors.ErrNotFound.Is(err):
		return coin.Coin{}, nil
	case err != nil:
		return coin.Coin{}, errors.Wrap(err, "load configuration")
	}
	return conf.AccountReserve, nil
}
