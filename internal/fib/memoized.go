package fib

import (
	"context"
	"math/big"
)

// Memoized computes F(n) by top-down recursion with an explicit cache.
//
// Base cases (n=0, n=1) return without touching the cache. The recursive
// case consults the cache first; on a miss it computes F(n-1)+F(n-2),
// stores the result under n, captures a cache snapshot, and returns. Each
// novel index is computed exactly once, so a monotonically increasing call
// sequence 0..k performs total work linear in k.
type Memoized struct {
	cache *Cache
}

// NewMemoized creates a memoized calculator over the given cache. The
// cache persists across calls for the lifetime of the calculator,
// mirroring a session-wide memo table.
func NewMemoized(cache *Cache) *Memoized {
	if cache == nil {
		cache = NewCache()
	}
	return &Memoized{cache: cache}
}

// Name returns the calculator identifier.
func (m *Memoized) Name() string { return "Memoized Recursion" }

// Cache exposes the underlying memoization state for inspection.
func (m *Memoized) Cache() *Cache { return m.cache }

// Cold returns a memoized calculator over an empty cache, leaving the
// receiver's cache untouched.
func (m *Memoized) Cold() Calculator { return NewMemoized(NewCache()) }

// Calculate returns F(n), memoizing every novel index computed during the
// call chain. The observer receives one Step per novel index and one
// Capture of the cache snapshot after each new entry is memoized.
func (m *Memoized) Calculate(ctx context.Context, n int, obs Observer) (*big.Int, error) {
	if err := validateIndex(n); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return m.fib(n, obs), nil
}

// fib is the recursive worker. Recursion depth is bounded by n, which
// validateIndex caps at MaxIndex.
func (m *Memoized) fib(n int, obs Observer) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	if v, ok := m.cache.Get(n); ok {
		return v
	}

	v := new(big.Int).Add(m.fib(n-1, obs), m.fib(n-2, obs))
	obs.Step()
	m.cache.put(n, v)
	obs.Capture(m.cache.Snapshot())
	return v
}
