package fib

import (
	"context"
	"math/big"

	apperrors "github.com/agbru/fibgrade/internal/errors"
)

// maxNaiveIndex bounds the naive calculator: beyond this the exponential
// call tree is no longer worth demonstrating.
const maxNaiveIndex = 40

// Naive computes F(n) by plain double recursion with no memoization.
// It exists solely as the exponential contrast case in complexity
// demonstrations and grading examples.
type Naive struct{}

// Name returns the calculator identifier.
func (c *Naive) Name() string { return "Naive Recursion" }

// Calculate returns F(n). The observer receives one Step per recursive
// call, making the exponential work directly observable.
func (c *Naive) Calculate(ctx context.Context, n int, obs Observer) (*big.Int, error) {
	if err := validateIndex(n); err != nil {
		return nil, err
	}
	if n > maxNaiveIndex {
		return nil, apperrors.ValidationError{Field: "n", Message: "index too large for naive recursion"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = NopObserver{}
	}
	return naiveFib(n, obs), nil
}

func naiveFib(n int, obs Observer) *big.Int {
	obs.Step()
	if n < 2 {
		return big.NewInt(int64(n))
	}
	return new(big.Int).Add(naiveFib(n-1, obs), naiveFib(n-2, obs))
}
