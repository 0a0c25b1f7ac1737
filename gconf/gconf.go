package gconf

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// ReadStore is the part of the store needed to load a configuration.
type ReadStore interface {
	Get(key []byte) ([]byte, error)
}

// Store is the part of the store needed to save a configuration.
type Store interface {
	ReadStore
	Set(key, value []byte) error
}

// Configuration is a validated singleton stored in binary form.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// key of the configuration singleton of an extension
func key(pkg string) []byte {
	return append([]byte("_c:"), pkg...)
}

// Save validates and stores the configuration of given extension,
// replacing any previous one.
func Save(db Store, pkg string, conf Configuration) error {
	if err := conf.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := conf.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %s configuration", pkg)
	}
	return db.Set(key(pkg), raw)
}

// Load reads the configuration of given extension into dst. ErrNotFound is
// returned if no configuration was ever saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	return errors.Wrapf(dst.Unmarshal(raw), "cannot unmarshal %s configuration", pkg)
}

// InitConfig saves the configuration found in the genesis under
// "conf" / pkg. ErrNotFound is returned when the genesis does not configure
// this extension.
func InitConfig(db Store, opts safepay.Options, pkg string, conf Configuration) error {
	var all safepay.Options
	if err := opts.ReadOptions("conf", &all); err != nil {
		return errors.Wrap(err, "genesis conf")
	}
	if _, ok := all[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "genesis conf has no %q section", pkg)
	}
	if err := all.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis conf %q", pkg)
	}
	return Save(db, pkg, conf)
}
