package orchestration

import (
	"sync"

	"github.com/agbru/fibgrade/internal/progress"
)

// ProgressAggregator folds per-check progress updates into one overall
// figure. Both the CLI spinner and the TUI consume it so the aggregation
// logic lives in one place.
type ProgressAggregator struct {
	mu        sync.Mutex
	values    []float64
	numChecks int
}

// NewProgressAggregator creates an aggregator for the given number of
// checks. Returns nil if numChecks <= 0.
func NewProgressAggregator(numChecks int) *ProgressAggregator {
	if numChecks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		values:    make([]float64, numChecks),
		numChecks: numChecks,
	}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	// CheckIndex is the index of the check that sent the update.
	CheckIndex int
	// Label identifies the reference being checked.
	Label string
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the aggregated average across all checks.
	AverageProgress float64
}

// Update processes a single progress update and returns the aggregated
// state.
func (a *ProgressAggregator) Update(update progress.Update) AggregatedProgress {
	a.mu.Lock()
	defer a.mu.Unlock()

	if update.CheckIndex >= 0 && update.CheckIndex < len(a.values) {
		a.values[update.CheckIndex] = clamp01(update.Value)
	}
	return AggregatedProgress{
		CheckIndex:      update.CheckIndex,
		Label:           update.Label,
		Value:           update.Value,
		AverageProgress: a.averageLocked(),
	}
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.averageLocked()
}

func (a *ProgressAggregator) averageLocked() float64 {
	var sum float64
	for _, v := range a.values {
		sum += v
	}
	return sum / float64(len(a.values))
}

// NumChecks returns the number of checks being tracked.
func (a *ProgressAggregator) NumChecks() int { return a.numChecks }

// IsMultiCheck reports whether more than one check is tracked.
func (a *ProgressAggregator) IsMultiCheck() bool { return a.numChecks > 1 }

// DrainChannel reads all updates from the channel without processing. Use
// this when numChecks <= 0 and updates should be discarded.
func DrainChannel(progressChan <-chan progress.Update) {
	for range progressChan {
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
