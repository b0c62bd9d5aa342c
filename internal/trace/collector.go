package trace

import (
	"github.com/agbru/fibgrade/internal/fib"
)

// Collector accumulates a footprint while a computation runs. It satisfies
// fib.Observer: Step advances a monotonic counter used as the footprint
// timebase, and Capture snapshots a value into the footprint.
//
// A Collector is not safe for concurrent use. Trace one computation at a
// time, or give each goroutine its own collector and merge the footprints.
type Collector struct {
	steps     uint64
	footprint *Footprint
}

// static interface check
var _ fib.Observer = (*Collector)(nil)

// NewCollector creates a collector with an empty footprint.
func NewCollector() *Collector {
	return &Collector{footprint: NewFootprint()}
}

// Step advances the step counter by one primitive operation.
func (c *Collector) Step() { c.steps++ }

// Steps returns the current value of the step counter.
func (c *Collector) Steps() uint64 { return c.steps }

// Capture records a value snapshot stamped with the current step count.
// Values already present in the footprint (same digest) are ignored.
func (c *Collector) Capture(v any) {
	c.footprint.AddObservation(Observation{
		Digest: DigestValue(v),
		Repr:   CanonicalRepr(v),
		Step:   c.steps,
	})
}

// Bracket runs fn under this collector and records the steps it consumed
// as a complexity sample for (label, n). The callback receives the
// collector as its observer; any error from fn is returned unchanged and
// no sample is recorded for the failed run.
//
// Parameters:
//   - label: the name of the computation being measured.
//   - n: the input size of this sample.
//   - fn: the computation to measure.
//
// Returns:
//   - ComplexityResult: the recorded sample (zero value on error).
//   - error: the error from fn, if any.
func (c *Collector) Bracket(label string, n int, fn func(obs fib.Observer) error) (ComplexityResult, error) {
	start := c.steps
	if err := fn(c); err != nil {
		return ComplexityResult{}, err
	}
	res := ComplexityResult{Label: label, N: n, Start: start, Stop: c.steps}
	c.footprint.AddComplexity(res)
	return res, nil
}

// Footprint returns the footprint accumulated so far. The returned value
// is live; further collector activity keeps appending to it.
func (c *Collector) Footprint() *Footprint { return c.footprint }
