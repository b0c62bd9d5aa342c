//go:build gmp

package fib

import (
	"context"
	"math/big"

	"github.com/ncw/gmp"
)

// GMPIterative is a build-tagged variant of the iterative calculator that
// performs the additions on GMP integers. It exists for benchmarking the
// DP fill loop against math/big on large indices; results are converted
// back to *big.Int at the boundary.
type GMPIterative struct{}

// Name returns the calculator identifier.
func (g *GMPIterative) Name() string { return "Iterative DP (GMP)" }

// Calculate returns F(n) using a two-register GMP fill loop. The observer
// contract matches Iterative: one Step per iteration, one Capture of the
// final value.
func (g *GMPIterative) Calculate(ctx context.Context, n int, obs Observer) (*big.Int, error) {
	if err := validateIndex(n); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}

	a, b := gmp.NewInt(0), gmp.NewInt(1)
	for k := 2; k <= n; k++ {
		if k%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		a.Add(a, b)
		a, b = b, a
		obs.Step()
	}

	var result *gmp.Int
	switch n {
	case 0:
		result = a
	default:
		result = b
	}

	out := new(big.Int).SetBytes(result.Bytes())
	obs.Capture(new(big.Int).Set(out))
	return out, nil
}
