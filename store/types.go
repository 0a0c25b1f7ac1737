package store

import "github.com/iov-one/safepay"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	KVStore          = safepay.KVStore
	ReadOnlyKVStore  = safepay.ReadOnlyKVStore
	SetDeleter       = safepay.SetDeleter
	Batch            = safepay.Batch
	Iterator         = safepay.Iterator
	CacheableKVStore = safepay.CacheableKVStore
	KVCacheWrap      = safepay.KVCacheWrap
	CommitKVStore    = safepay.CommitKVStore
	CommitID         = safepay.CommitID
	Model            = safepay.Model
)

// Pair constructs a model from a key-value pair
var Pair = safepay.Pair
