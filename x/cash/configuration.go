package cash

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/coin"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

// GconfPkg is the name under which the configuration is stored.
const GconfPkg = "cash"

// Configuration of the native currency. MinimalFee is informational, the
// application does not charge fees.
type Configuration struct {
	Metadata         *safepay.Metadata `json:"metadata"`
	Owner            safepay.Address   `json:"owner"`
	CollectorAddress safepay.Address   `json:"collector_address"`
	MinimalFee       coin.Coin         `json:"minimal_fee"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	// owner field is optional
	if len(c.Owner) != 0 {
		if err := c.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner address")
		}
	}
	if len(c.CollectorAddress) == 0 {
		return errors.Wrap(errors.ErrEmpty, "collector address missing")
	}
	if err := c.CollectorAddress.Validate(); err != nil {
		return errors.Wrap(err, "collector address")
	}
	if !c.MinimalFee.IsZero() {
		if err := c.MinimalFee.Validate(); err != nil {
			return errors.Wrap(err, "minimal fee")
		}
		if !c.MinimalFee.IsNonNegative() {
			return errors.Wrap(errors.ErrAmount, "minimal fee cannot be negative")
		}
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return safepay.MarshalBinary(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return safepay.UnmarshalBinary(raw, c)
}

// LoadConfiguration returns the configuration stored in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, GconfPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
