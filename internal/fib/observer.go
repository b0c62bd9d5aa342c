package fib

// Observer receives computation side effects for external inspection.
// It models the two capabilities the checking layer needs from a
// computation: counting primitive operations and capturing named value
// snapshots at meaningful points.
type Observer interface {
	// Step records one primitive operation (a novel memoized index, or one
	// buffer fill iteration).
	Step()
	// Capture records a snapshot of a data structure at a meaningful point
	// (after memoizing a new entry, or after completing a fill loop).
	Capture(v any)
}

// NopObserver is an Observer that discards everything. Use it when a
// computation runs outside any check.
type NopObserver struct{}

// Step is a no-op.
func (NopObserver) Step() {}

// Capture is a no-op.
func (NopObserver) Capture(any) {}
