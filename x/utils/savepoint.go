package utils

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// Savepoint isolates all writes done by the wrapped handler. They are
// written to the parent store only if the handler succeeds and dropped
// otherwise.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ safepay.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check runs next in isolation when enabled for checks.
func (s Savepoint) Check(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Checker) (*safepay.CheckResult, error) {
	var res *safepay.CheckResult
	err := isolate(s.onCheck, db, func(db safepay.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver runs next in isolation when enabled for deliveries.
func (s Savepoint) Deliver(ctx safepay.Context, db safepay.KVStore, tx safepay.Tx, next safepay.Deliverer) (*safepay.DeliverResult, error) {
	var res *safepay.DeliverResult
	err := isolate(s.onDeliver, db, func(db safepay.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// isolate calls fn with a cache wrapped store if enabled and the store
// supports it, otherwise fn operates directly on db.
func isolate(enabled bool, db safepay.KVStore, fn func(safepay.KVStore) error) error {
	cstore, ok := db.(safepay.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
