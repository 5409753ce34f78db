package store

import (
	"github.com/zcombinatorio/squads"
)

// Type aliases to the interfaces defined in the root package, so that
// code in this package reads naturally without the import cycle.
type (
	ReadOnlyKVStore  = squads.ReadOnlyKVStore
	KVStore          = squads.KVStore
	CacheableKVStore = squads.CacheableKVStore
	KVCacheWrap      = squads.KVCacheWrap
	Iterator         = squads.Iterator
	Batch            = squads.Batch
)

// SetDeleter is the write subset of a KVStore, the target of a Batch.
type SetDeleter interface {
	Set(key, value []byte)
	Delete(key []byte)
}

// Model groups a key-value pair, used by the slice iterator.
type Model struct {
	Key   []byte
	Value []byte
}
