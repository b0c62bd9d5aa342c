package trace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/agbru/fibgrade/internal/errors"
)

// Observation is a single captured value snapshot. Values are stored by
// digest with a human-readable representation alongside; Step is the value
// of the step counter at capture time and orders observations within a
// footprint.
type Observation struct {
	Digest string `json:"digest"`
	Repr   string `json:"repr"`
	Step   uint64 `json:"step"`
}

// ComplexityResult is one scoped sample: the work performed (in observer
// steps) by a labeled computation at input size N.
type ComplexityResult struct {
	Label string `json:"label"`
	N     int    `json:"n"`
	Start uint64 `json:"start"`
	Stop  uint64 `json:"stop"`
}

// Steps returns the number of steps spent inside the bracket.
func (r ComplexityResult) Steps() uint64 {
	if r.Stop < r.Start {
		return 0
	}
	return r.Stop - r.Start
}

// Footprint is the complete serializable record of one traced run.
// Observations are deduplicated by digest, keeping the earliest capture of
// each distinct value.
type Footprint struct {
	Observations []Observation      `json:"observations"`
	Complexity   []ComplexityResult `json:"complexity,omitempty"`

	seen map[string]int
}

// NewFootprint creates an empty footprint.
func NewFootprint() *Footprint {
	return &Footprint{seen: make(map[string]int)}
}

// AddObservation records an observation. If a value with the same digest
// was already captured, the earlier record wins and the new one is
// discarded.
//
// Returns:
//   - bool: true if the observation was novel and recorded.
func (f *Footprint) AddObservation(obs Observation) bool {
	if f.seen == nil {
		f.reindex()
	}
	if _, ok := f.seen[obs.Digest]; ok {
		return false
	}
	f.seen[obs.Digest] = len(f.Observations)
	f.Observations = append(f.Observations, obs)
	return true
}

// AddComplexity appends a scoped complexity sample.
func (f *Footprint) AddComplexity(res ComplexityResult) {
	f.Complexity = append(f.Complexity, res)
}

// Contains reports whether a value with the given digest was observed.
func (f *Footprint) Contains(digest string) bool {
	if f.seen == nil {
		f.reindex()
	}
	_, ok := f.seen[digest]
	return ok
}

// ObservationFor returns the observation recorded for a digest, if any.
func (f *Footprint) ObservationFor(digest string) (Observation, bool) {
	if f.seen == nil {
		f.reindex()
	}
	idx, ok := f.seen[digest]
	if !ok {
		return Observation{}, false
	}
	return f.Observations[idx], true
}

// ComplexityFor collects the samples recorded under a label as an input
// size to step count mapping. When a size was sampled more than once the
// smallest step count is kept, matching the assumption that repeated runs
// only add noise on top of the true work.
func (f *Footprint) ComplexityFor(label string) map[int]uint64 {
	out := make(map[int]uint64)
	for _, res := range f.Complexity {
		if res.Label != label {
			continue
		}
		steps := res.Steps()
		if prev, ok := out[res.N]; !ok || steps < prev {
			out[res.N] = steps
		}
	}
	return out
}

// Labels returns the distinct complexity labels in sorted order.
func (f *Footprint) Labels() []string {
	set := make(map[string]struct{})
	for _, res := range f.Complexity {
		set[res.Label] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Merge folds another footprint into this one. Observation steps from the
// other footprint are shifted by offset so that merged step values remain
// monotonic across run boundaries; duplicate digests keep the earliest
// record.
func (f *Footprint) Merge(other *Footprint, offset uint64) {
	if other == nil {
		return
	}
	for _, obs := range other.Observations {
		shifted := obs
		shifted.Step += offset
		f.AddObservation(shifted)
	}
	for _, res := range other.Complexity {
		res.Start += offset
		res.Stop += offset
		f.AddComplexity(res)
	}
}

// MaxStep returns the largest step value recorded in the footprint.
func (f *Footprint) MaxStep() uint64 {
	var max uint64
	for _, obs := range f.Observations {
		if obs.Step > max {
			max = obs.Step
		}
	}
	for _, res := range f.Complexity {
		if res.Stop > max {
			max = res.Stop
		}
	}
	return max
}

// reindex rebuilds the digest index, used after JSON decoding.
func (f *Footprint) reindex() {
	f.seen = make(map[string]int, len(f.Observations))
	for i, obs := range f.Observations {
		if _, ok := f.seen[obs.Digest]; !ok {
			f.seen[obs.Digest] = i
		}
	}
}

// Save writes the footprint as indented JSON, creating parent directories
// as needed.
func (f *Footprint) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "marshaling footprint")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "creating footprint directory")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.WrapError(err, "writing footprint to %s", path)
	}
	return nil
}

// LoadFootprint reads a footprint previously written by Save.
func LoadFootprint(path string) (*Footprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading footprint from %s", path)
	}
	fp := NewFootprint()
	if err := json.Unmarshal(data, fp); err != nil {
		return nil, apperrors.WrapError(err, "decoding footprint")
	}
	fp.reindex()
	return fp, nil
}
