package annotation

import (
	"fmt"

	"github.com/agbru/fibgrade/internal/trace"
)

// Value asserts that a specific value was captured at some point during
// execution. Equality is digest equality over canonical representations,
// so a reconstructed cache or buffer matches as long as its contents do.
type Value struct {
	name   string
	digest string
	repr   string
}

// NewValue creates a value annotation for the expected value v.
func NewValue(name string, v any) *Value {
	return &Value{
		name:   name,
		digest: trace.DigestValue(v),
		repr:   trace.CanonicalRepr(v),
	}
}

// NewValueFromDigest reconstructs a value annotation from its persisted
// form, where only the digest and representation of the expected value
// survive.
func NewValueFromDigest(name, digest, repr string) *Value {
	return &Value{name: name, digest: digest, repr: repr}
}

// Name returns the annotation identifier.
func (a *Value) Name() string { return a.name }

// Digest returns the expected value's digest.
func (a *Value) Digest() string { return a.digest }

// Repr returns the canonical representation of the expected value.
func (a *Value) Repr() string { return a.repr }

// Check reports whether the expected value appears in the footprint.
func (a *Value) Check(fp *trace.Footprint) Result {
	obs, ok := fp.ObservationFor(a.digest)
	if !ok {
		return Result{
			Name:    a.name,
			Message: fmt.Sprintf("expected value %s was never observed", truncateRepr(a.repr)),
		}
	}
	return Result{
		Name:        a.name,
		Satisfied:   true,
		SatisfiedAt: obs.Step,
		Observed:    truncateRepr(obs.Repr),
	}
}

// maxReprLen bounds representations embedded in results so reports stay
// readable when a captured buffer is large.
const maxReprLen = 80

func truncateRepr(s string) string {
	if len(s) <= maxReprLen {
		return s
	}
	return s[:maxReprLen-3] + "..."
}
