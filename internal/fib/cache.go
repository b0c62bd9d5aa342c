package fib

import (
	"math/big"
	"sort"
)

// Cache is the explicit memoization state for the recursive calculator.
// It maps a Fibonacci index to its computed value, grows monotonically as
// larger indices are requested, and never evicts. The cache is owned by
// the caller and passed into the computation, so no hidden process-wide
// state exists.
//
// A Cache is not safe for concurrent use: the computation model is
// single-writer, single-reader within one sequential session. Callers
// running checks concurrently must give each goroutine its own Cache.
type Cache struct {
	values map[int]*big.Int
	hits   uint64
	misses uint64
}

// NewCache creates an empty memoization cache.
func NewCache() *Cache {
	return &Cache{values: make(map[int]*big.Int)}
}

// Get returns the cached value for index n, if present. Hit/miss counters
// are updated on every lookup.
func (c *Cache) Get(n int) (*big.Int, bool) {
	v, ok := c.values[n]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// put stores the value for index n. Existing entries are never rewritten;
// memoization is idempotent by construction.
func (c *Cache) put(n int, v *big.Int) {
	if _, ok := c.values[n]; ok {
		return
	}
	c.values[n] = v
}

// Len returns the number of cached indices.
func (c *Cache) Len() int { return len(c.values) }

// Indices returns the cached indices in increasing order.
func (c *Cache) Indices() []int {
	idx := make([]int, 0, len(c.values))
	for n := range c.values {
		idx = append(idx, n)
	}
	sort.Ints(idx)
	return idx
}

// Snapshot returns a deep copy of the cache contents, suitable for handing
// to a footprint collector without aliasing live state.
func (c *Cache) Snapshot() map[int]*big.Int {
	out := make(map[int]*big.Int, len(c.values))
	for n, v := range c.values {
		out[n] = new(big.Int).Set(v)
	}
	return out
}

// Stats returns the cumulative hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}
