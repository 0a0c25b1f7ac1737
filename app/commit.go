package app

import (
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
)

// CommitStore keeps two caches over the committed state: one for
// DeliverTx, flushed on Commit, and one for CheckTx, dropped on Commit.
type CommitStore struct {
	committed safepay.CommitKVStore
	deliver   safepay.KVCacheWrap
	check     safepay.KVCacheWrap
}

// NewCommitStore loads the latest version of the store.
func NewCommitStore(committed safepay.CommitKVStore) (*CommitStore, error) {
	if err := committed.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	cs := &CommitStore{committed: committed}
	cs.reset()
	return cs, nil
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (safepay.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists all delivered writes as a new version.
func (cs *CommitStore) Commit() (safepay.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return safepay.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() safepay.CacheableKVStore   { return cs.check }
func (cs *CommitStore) DeliverStore() safepay.CacheableKVStore { return cs.deliver }

// chainIDKey is written once, by InitChain. The "_sp:" prefix is reserved
// for application data.
var chainIDKey = []byte("_sp:chainID")

func loadChainID(db safepay.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

func saveChainID(db safepay.KVStore, chainID string) error {
	if !safepay.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	switch exists, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id already set")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
