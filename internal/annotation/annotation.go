package annotation

import "github.com/agbru/fibgrade/internal/trace"

// Result is the outcome of checking one annotation against a footprint.
type Result struct {
	// Name identifies the annotation that produced this result.
	Name string `json:"name"`

	// Satisfied reports whether the asserted condition held.
	Satisfied bool `json:"satisfied"`

	// SatisfiedAt is the footprint step at which the condition was first
	// met. Only meaningful when Satisfied is true and the annotation has a
	// positional notion of success (value annotations do, complexity
	// annotations do not).
	SatisfiedAt uint64 `json:"satisfied_at,omitempty"`

	// Observed describes what the footprint actually contained, for
	// reporting. For complexity annotations this is the determined class.
	Observed string `json:"observed,omitempty"`

	// Message carries a human-readable explanation for failures.
	Message string `json:"message,omitempty"`
}

// Annotation is a single checkable condition over a footprint.
type Annotation interface {
	// Name returns the annotation identifier, unique within a reference.
	Name() string

	// Check evaluates the condition against the footprint.
	Check(fp *trace.Footprint) Result
}
