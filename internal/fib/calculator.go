package fib

import (
	"context"
	"math/big"
	"sort"

	apperrors "github.com/agbru/fibgrade/internal/errors"
)

// MaxIndex bounds the accepted Fibonacci index. The memoized calculator
// recurses once per index, so the bound also caps recursion depth.
const MaxIndex = 1_000_000

// Calculator computes Fibonacci numbers while reporting side effects to an
// Observer. Implementations must treat the observer as mandatory (pass
// NopObserver to discard) and honor context cancellation on long runs.
type Calculator interface {
	// Name returns the human-readable identifier of the calculator.
	Name() string
	// Calculate returns F(n). Side effects (primitive operations, value
	// snapshots) are reported through obs.
	Calculate(ctx context.Context, n int, obs Observer) (*big.Int, error)
}

// validateIndex rejects indices outside [0, MaxIndex]. The negative-index
// policy is deliberate and explicit: the computation contract is defined
// for n >= 0 only, so anything below is a validation error rather than
// undefined behavior.
func validateIndex(n int) error {
	if n < 0 {
		return apperrors.ValidationError{Field: "n", Message: "index must be non-negative"}
	}
	if n > MaxIndex {
		return apperrors.ValidationError{Field: "n", Message: "index exceeds supported maximum"}
	}
	return nil
}

// Cold returns a calculator carrying no accumulated state, for use as
// an isolated profiling sample. Calculators that memoize across calls
// return a fresh instance; stateless calculators are returned as-is.
// Profiling must use cold calculators: bracketing a warm memo table
// measures the incremental cache fill, not the computation.
func Cold(c Calculator) Calculator {
	if s, ok := c.(interface{ Cold() Calculator }); ok {
		return s.Cold()
	}
	return c
}

// Factory provides access to the registered calculators by key.
type Factory interface {
	// Get returns the calculator registered under key, if any.
	Get(key string) (Calculator, bool)
	// GetAll returns all registered calculators, ordered by key.
	GetAll() []Calculator
	// List returns the registry keys in sorted order.
	List() []string
}

// defaultFactory is the standard registry of calculators.
type defaultFactory struct {
	registry map[string]Calculator
}

// NewDefaultFactory creates a factory with the standard calculators:
// "memo" (memoized recursion over a fresh cache per calculator),
// "iter" (bottom-up dynamic programming), and "naive" (plain recursion,
// the exponential contrast case).
func NewDefaultFactory() Factory {
	return &defaultFactory{registry: map[string]Calculator{
		"memo":  NewMemoized(NewCache()),
		"iter":  &Iterative{},
		"naive": &Naive{},
	}}
}

// Get returns the calculator registered under key, if any.
func (f *defaultFactory) Get(key string) (Calculator, bool) {
	c, ok := f.registry[key]
	return c, ok
}

// GetAll returns all registered calculators, ordered by key.
func (f *defaultFactory) GetAll() []Calculator {
	keys := f.List()
	out := make([]Calculator, 0, len(keys))
	for _, k := range keys {
		out = append(out, f.registry[k])
	}
	return out
}

// List returns the registry keys in sorted order.
func (f *defaultFactory) List() []string {
	keys := make([]string, 0, len(f.registry))
	for k := range f.registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
