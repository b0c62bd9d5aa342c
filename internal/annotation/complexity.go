package annotation

import (
	"fmt"
	"math"
	"sort"

	"github.com/agbru/fibgrade/internal/trace"
)

// classEPS gives a slight preference to simpler complexity classes when
// two classes fit the samples equally well.
const classEPS = 1e-6

// ComplexityClass is a named growth curve that samples can be fitted
// against.
type ComplexityClass struct {
	// Label is the class name as it appears in results, e.g. "linear".
	Label string

	// transformN maps the input size onto the regression axis.
	transformN func(n float64) float64

	// logTime indicates the regression runs over log step counts, used by
	// the exponential class.
	logTime bool
}

// Complexity classes in order from simplest to most complex. Fitting
// walks this slice in order and only replaces the incumbent when a class
// fits strictly better than classEPS.
var complexityClasses = []ComplexityClass{
	{Label: "constant", transformN: func(n float64) float64 { return 1 }},
	{Label: "logarithmic", transformN: func(n float64) float64 { return math.Log2(n + 1) }},
	{Label: "linear", transformN: func(n float64) float64 { return n }},
	{Label: "linearithmic", transformN: func(n float64) float64 { return n * math.Log2(n+1) }},
	{Label: "quadratic", transformN: func(n float64) float64 { return n * n }},
	{Label: "cubic", transformN: func(n float64) float64 { return n * n * n }},
	{Label: "exponential", transformN: func(n float64) float64 { return n }, logTime: true},
}

// ClassLabels returns the labels of all supported complexity classes in
// fitting order.
func ClassLabels() []string {
	labels := make([]string, len(complexityClasses))
	for i, c := range complexityClasses {
		labels[i] = c.Label
	}
	return labels
}

// validClass reports whether label names a supported class.
func validClass(label string) bool {
	for _, c := range complexityClasses {
		if c.Label == label {
			return true
		}
	}
	return false
}

// residual fits the samples to this class by least squares and returns a
// scale-free goodness-of-fit value. Lower is better; an exact fit yields
// zero.
func (c ComplexityClass) residual(ns, steps []float64) float64 {
	xs := make([]float64, len(ns))
	ys := make([]float64, len(steps))
	for i := range ns {
		xs[i] = c.transformN(ns[i])
		ys[i] = steps[i]
		if c.logTime {
			ys[i] = math.Log2(steps[i] + 1)
		}
	}

	a, b := leastSquares(xs, ys)

	var ss, norm float64
	for i := range xs {
		d := ys[i] - (a + b*xs[i])
		ss += d * d
		norm += ys[i] * ys[i]
	}
	if norm == 0 {
		return ss
	}
	return ss / norm
}

// leastSquares fits y = a + b*x and returns the coefficients. Degenerate
// inputs (all x equal) collapse to the mean with b = 0.
func leastSquares(xs, ys []float64) (a, b float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXX += xs[i] * xs[i]
		sumXY += xs[i] * ys[i]
	}

	det := n*sumXX - sumX*sumX
	if math.Abs(det) < 1e-12 {
		return sumY / n, 0
	}
	b = (n*sumXY - sumX*sumY) / det
	a = (sumY - b*sumX) / n
	return a, b
}

// FitClass determines the complexity class that best explains the samples,
// an input size to step count mapping. Ties within classEPS resolve to the
// simpler class. At least two distinct sizes are required.
//
// Parameters:
//   - samples: input size mapped to measured steps.
//
// Returns:
//   - string: the label of the best-fitting class.
//   - error: if the samples cannot support a fit.
func FitClass(samples map[int]uint64) (string, error) {
	if len(samples) < 2 {
		return "", fmt.Errorf("complexity fit requires at least 2 distinct sizes, got %d", len(samples))
	}

	sizes := make([]int, 0, len(samples))
	for n := range samples {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)

	ns := make([]float64, len(sizes))
	steps := make([]float64, len(sizes))
	for i, n := range sizes {
		ns[i] = float64(n)
		steps[i] = float64(samples[n])
	}

	best := complexityClasses[0]
	bestRes := best.residual(ns, steps)
	for _, cls := range complexityClasses[1:] {
		if res := cls.residual(ns, steps); res < bestRes-classEPS {
			best, bestRes = cls, res
		}
	}
	return best.Label, nil
}

// TimeComplexity asserts that the samples recorded under a label fit a
// specific complexity class better than any other supported class.
type TimeComplexity struct {
	name     string
	label    string
	expected string
}

// NewTimeComplexity creates a complexity annotation.
//
// Parameters:
//   - name: the annotation identifier.
//   - label: the bracket label whose samples are analyzed.
//   - expected: the asserted class, one of ClassLabels.
//
// Returns:
//   - *TimeComplexity: the annotation.
//   - error: if expected is not a supported class.
func NewTimeComplexity(name, label, expected string) (*TimeComplexity, error) {
	if !validClass(expected) {
		return nil, fmt.Errorf("unknown complexity class %q", expected)
	}
	return &TimeComplexity{name: name, label: label, expected: expected}, nil
}

// Name returns the annotation identifier.
func (a *TimeComplexity) Name() string { return a.name }

// Label returns the bracket label whose samples are analyzed.
func (a *TimeComplexity) Label() string { return a.label }

// Expected returns the asserted complexity class.
func (a *TimeComplexity) Expected() string { return a.expected }

// Check fits the labeled samples and compares the determined class with
// the asserted one.
func (a *TimeComplexity) Check(fp *trace.Footprint) Result {
	samples := fp.ComplexityFor(a.label)
	determined, err := FitClass(samples)
	if err != nil {
		return Result{
			Name:    a.name,
			Message: fmt.Sprintf("cannot determine complexity for %q: %v", a.label, err),
		}
	}
	if determined != a.expected {
		return Result{
			Name:     a.name,
			Observed: determined,
			Message:  fmt.Sprintf("measured %s, expected %s", determined, a.expected),
		}
	}
	return Result{Name: a.name, Satisfied: true, Observed: determined}
}
