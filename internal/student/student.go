package student

import (
	"fmt"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/trace"
)

// Implementation is one student submission: a name plus the footprint its
// execution left behind.
type Implementation struct {
	name      string
	footprint *trace.Footprint
}

// FromFootprint wraps an already-collected footprint.
func FromFootprint(name string, fp *trace.Footprint) *Implementation {
	if fp == nil {
		fp = trace.NewFootprint()
	}
	return &Implementation{name: name, footprint: fp}
}

// Record traces fn under a fresh collector and returns the resulting
// implementation. The callback receives the collector so it can bracket
// sections and capture values.
//
// Parameters:
//   - name: the submission identifier.
//   - fn: the code to trace.
//
// Returns:
//   - *Implementation: the traced submission.
//   - error: the error from fn, if any.
func Record(name string, fn func(c *trace.Collector) error) (*Implementation, error) {
	collector := trace.NewCollector()
	if err := fn(collector); err != nil {
		return nil, apperrors.WrapError(err, "recording %q", name)
	}
	return &Implementation{name: name, footprint: collector.Footprint()}, nil
}

// Name returns the submission identifier.
func (s *Implementation) Name() string { return s.name }

// Footprint returns the submission's footprint.
func (s *Implementation) Footprint() *trace.Footprint { return s.footprint }

// CheckAgainst grades the submission against a single reference.
func (s *Implementation) CheckAgainst(ref *reference.ReferenceImplementation) reference.ReferenceResult {
	return ref.Run(s.footprint)
}

// Check grades the submission against every reference, in order.
func (s *Implementation) Check(refs []*reference.ReferenceImplementation) []reference.ReferenceResult {
	results := make([]reference.ReferenceResult, 0, len(refs))
	for _, ref := range refs {
		results = append(results, s.CheckAgainst(ref))
	}
	return results
}

// Combine merges several submissions into one, as if their runs had
// executed back to back. Each footprint's steps are shifted past the end
// of the previous one so ordering is preserved, and values captured in
// more than one run collapse to their earliest occurrence.
//
// Parameters:
//   - name: the identifier for the combined submission.
//   - impls: the submissions to merge, in execution order.
//
// Returns:
//   - *Implementation: the combined submission.
//   - error: if no submissions were given.
func Combine(name string, impls ...*Implementation) (*Implementation, error) {
	if len(impls) == 0 {
		return nil, fmt.Errorf("combine requires at least one implementation")
	}

	merged := trace.NewFootprint()
	var offset uint64
	for _, impl := range impls {
		if impl == nil {
			continue
		}
		merged.Merge(impl.footprint, offset)
		offset = merged.MaxStep()
	}
	return &Implementation{name: name, footprint: merged}, nil
}
