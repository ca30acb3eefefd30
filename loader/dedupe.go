package loader

import (
	"fmt"

	"github.com/golang/groupcache/lru"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/mikkohei13/biotools/types/occurrence"
)

const defaultDedupeWindow = 10_000

// NewDedupeLRUFunc returns a predicate admitting each distinct record
// once within a sliding LRU window. Opt-in: collapsing repeats discards
// abundance, which the Chao1 and accumulation estimators depend on, so
// callers enable it only for presence-only richness runs. The window
// keeps memory bounded on multi-million-row files.
func NewDedupeLRUFunc() func(occurrence.Occurrence) bool {
	dedupeCache := lru.New(defaultDedupeWindow)
	return func(o occurrence.Occurrence) bool {
		hash, err := hashstructure.Hash(o, hashstructure.FormatV2, nil)
		if err != nil {
			return false
		}
		key := fmt.Sprintf("%d", hash)
		if _, ok := dedupeCache.Get(key); ok {
			return false
		}
		dedupeCache.Add(key, true)
		return true
	}
}
