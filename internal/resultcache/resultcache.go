// Package resultcache holds serialized job results for a bounded time so
// repeated lookups do not have to reload them from the job store.
package resultcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultTTL is how long a cached result stays retrievable.
	DefaultTTL = time.Hour
	// DefaultMaxEntries bounds the cache size; the least recently used
	// entry is evicted first.
	DefaultMaxEntries = 1024
)

// Cache maps job IDs to serialized results.
type Cache interface {
	Put(jobID, resultJSON string)
	Get(jobID string) (string, bool)
	Remove(jobID string)
	Len() int
}

// LRU is a TTL-bounded, size-bounded cache backed by an expirable LRU.
type LRU struct {
	inner *expirable.LRU[string, string]
}

// NewLRU returns a cache holding at most maxEntries results for up to ttl.
// Non-positive arguments fall back to the defaults.
func NewLRU(maxEntries int, ttl time.Duration) *LRU {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LRU{inner: expirable.NewLRU[string, string](maxEntries, nil, ttl)}
}

func (c *LRU) Put(jobID, resultJSON string) {
	c.inner.Add(jobID, resultJSON)
}

func (c *LRU) Get(jobID string) (string, bool) {
	return c.inner.Get(jobID)
}

func (c *LRU) Remove(jobID string) {
	c.inner.Remove(jobID)
}

func (c *LRU) Len() int {
	return c.inner.Len()
}

// Nop is a cache that stores nothing. It stands in when caching is disabled.
type Nop struct{}

func (Nop) Put(string, string)        {}
func (Nop) Get(string) (string, bool) { return "", false }
func (Nop) Remove(string)             {}
func (Nop) Len() int                  { return 0 }
