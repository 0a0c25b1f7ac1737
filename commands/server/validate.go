package server

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/app"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/store"
)

// ValidateGenesis runs the initializer over the app state of each genesis
// file, using an in-memory store, and returns the first failure.
func ValidateGenesis(ini safepay.Initializer, paths []string) error {
	for _, path := range paths {
		gen, err := app.LoadGenesis(path)
		if err == nil {
			err = ini.FromGenesis(gen.AppState, store.MemStore())
		}
		if err != nil {
			return errors.Wrapf(err, "genesis %s", path)
		}
	}
	return nil
}
