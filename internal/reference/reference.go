package reference

import (
	"fmt"

	"github.com/agbru/fibgrade/internal/annotation"
	"github.com/agbru/fibgrade/internal/trace"
)

// ReferenceImplementation is a named collection of annotations describing
// the expected behavior of one correct solution.
type ReferenceImplementation struct {
	name        string
	annotations []annotation.Annotation
}

// New creates a reference implementation.
//
// Parameters:
//   - name: the reference identifier, unique within a grading run.
//   - annotations: the conditions the reference asserts.
//
// Returns:
//   - *ReferenceImplementation: the reference.
//   - error: if the name is empty or no annotations were given.
func New(name string, annotations ...annotation.Annotation) (*ReferenceImplementation, error) {
	if name == "" {
		return nil, fmt.Errorf("reference implementation requires a name")
	}
	if len(annotations) == 0 {
		return nil, fmt.Errorf("reference %q has no annotations", name)
	}
	return &ReferenceImplementation{name: name, annotations: annotations}, nil
}

// Name returns the reference identifier.
func (r *ReferenceImplementation) Name() string { return r.name }

// Annotations returns the reference's annotations in declaration order.
func (r *ReferenceImplementation) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(r.annotations))
	copy(out, r.annotations)
	return out
}

// ReferenceResult aggregates the outcomes of checking every annotation of
// one reference against one footprint.
type ReferenceResult struct {
	// Reference is the name of the checked reference implementation.
	Reference string `json:"reference"`

	// Results holds one entry per annotation, in declaration order.
	Results []annotation.Result `json:"results"`
}

// Correct reports whether every annotation was satisfied.
func (rr ReferenceResult) Correct() bool {
	for _, res := range rr.Results {
		if !res.Satisfied {
			return false
		}
	}
	return len(rr.Results) > 0
}

// Satisfied returns the results of satisfied annotations.
func (rr ReferenceResult) Satisfied() []annotation.Result {
	return rr.filter(true)
}

// Unsatisfied returns the results of unsatisfied annotations.
func (rr ReferenceResult) Unsatisfied() []annotation.Result {
	return rr.filter(false)
}

func (rr ReferenceResult) filter(satisfied bool) []annotation.Result {
	var out []annotation.Result
	for _, res := range rr.Results {
		if res.Satisfied == satisfied {
			out = append(out, res)
		}
	}
	return out
}

// Run checks every annotation against the footprint.
func (r *ReferenceImplementation) Run(fp *trace.Footprint) ReferenceResult {
	rr := ReferenceResult{
		Reference: r.name,
		Results:   make([]annotation.Result, 0, len(r.annotations)),
	}
	for _, ann := range r.annotations {
		rr.Results = append(rr.Results, ann.Check(fp))
	}
	return rr
}
