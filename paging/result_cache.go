package paging

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
)

const defaultResultCacheEntries = 1024

// ResultCache memoizes untraced results keyed by stream fingerprint, policy
// and frame count. Every entry costs 1, so the cache holds up to maxEntries
// results before TinyLFU starts choosing between them.
type ResultCache struct {
	cache *ristretto.Cache[uint64, *Result]
}

// NewResultCache creates a cache holding up to maxEntries results
func NewResultCache(maxEntries int64) (*ResultCache, error) {
	if maxEntries <= 0 {
		maxEntries = defaultResultCacheEntries
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, *Result]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, NewSimError(ErrCodeInternal, "NewResultCache", "failed to create result cache", err)
	}
	return &ResultCache{cache: cache}, nil
}

func resultKey(stream *ReferenceStream, kind PolicyKind, frames int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], stream.Fingerprint())
	binary.LittleEndian.PutUint64(buf[8:], uint64(kind))
	binary.LittleEndian.PutUint64(buf[16:], uint64(frames))
	return xxhash.Sum64(buf[:])
}

// Get returns a memoized result
func (c *ResultCache) Get(stream *ReferenceStream, kind PolicyKind, frames int) (*Result, bool) {
	return c.cache.Get(resultKey(stream, kind, frames))
}

// Put stores an untraced result
func (c *ResultCache) Put(stream *ReferenceStream, result *Result) {
	if result.Steps != nil {
		return
	}
	c.cache.Set(resultKey(stream, result.Policy, result.Frames), result, 1)
	c.cache.Wait()
}

// Close releases the cache's background goroutines
func (c *ResultCache) Close() {
	c.cache.Close()
}
