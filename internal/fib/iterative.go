package fib

import (
	"context"
	"math/big"
)

// ctxCheckInterval controls how often the iterative fill loop polls the
// context for cancellation.
const ctxCheckInterval = 4096

// Iterative computes F(n) bottom-up over a fresh buffer of length n+1.
// No state is retained across calls; each call allocates storage
// proportional to n and discards it after returning the last element.
type Iterative struct{}

// Name returns the calculator identifier.
func (i *Iterative) Name() string { return "Iterative DP" }

// Calculate returns F(n) via a single linear pass: the buffer is zero
// initialized, index 1 is seeded when n > 0, and indices 2..n are filled
// in increasing order with value[i] = value[i-1] + value[i-2]. The
// observer receives one Step per fill iteration and one Capture of the
// completed buffer.
func (i *Iterative) Calculate(ctx context.Context, n int, obs Observer) (*big.Int, error) {
	if err := validateIndex(n); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}

	seq := make([]*big.Int, n+1)
	seq[0] = big.NewInt(0)
	if n > 0 {
		seq[1] = big.NewInt(1)
	}
	for k := 2; k <= n; k++ {
		if k%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		seq[k] = new(big.Int).Add(seq[k-1], seq[k-2])
		obs.Step()
	}

	obs.Capture(snapshotSequence(seq))
	return new(big.Int).Set(seq[n]), nil
}

// snapshotSequence deep-copies the fill buffer for footprint capture.
func snapshotSequence(seq []*big.Int) []*big.Int {
	out := make([]*big.Int, len(seq))
	for i, v := range seq {
		out[i] = new(big.Int).Set(v)
	}
	return out
}
