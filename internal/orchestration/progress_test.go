package orchestration

import (
	"math"
	"testing"

	"github.com/agbru/fibgrade/internal/progress"
)

func TestNewProgressAggregatorValidation(t *testing.T) {
	if NewProgressAggregator(0) != nil {
		t.Error("zero checks should yield a nil aggregator")
	}
	if NewProgressAggregator(-1) != nil {
		t.Error("negative checks should yield a nil aggregator")
	}
	if agg := NewProgressAggregator(3); agg == nil || agg.NumChecks() != 3 {
		t.Error("valid count should yield a working aggregator")
	}
}

func TestProgressAggregatorAveraging(t *testing.T) {
	agg := NewProgressAggregator(2)

	res := agg.Update(progress.Update{CheckIndex: 0, Label: "a", Value: 1.0})
	if math.Abs(res.AverageProgress-0.5) > 1e-9 {
		t.Errorf("average after one complete check = %f, want 0.5", res.AverageProgress)
	}
	if res.Label != "a" || res.CheckIndex != 0 {
		t.Errorf("update metadata lost: %+v", res)
	}

	res = agg.Update(progress.Update{CheckIndex: 1, Label: "b", Value: 0.5})
	if math.Abs(res.AverageProgress-0.75) > 1e-9 {
		t.Errorf("average = %f, want 0.75", res.AverageProgress)
	}
	if math.Abs(agg.CalculateAverage()-0.75) > 1e-9 {
		t.Errorf("CalculateAverage = %f, want 0.75", agg.CalculateAverage())
	}
}

func TestProgressAggregatorClampsAndIgnoresOutOfRange(t *testing.T) {
	agg := NewProgressAggregator(1)

	res := agg.Update(progress.Update{CheckIndex: 0, Value: 2.5})
	if res.AverageProgress != 1.0 {
		t.Errorf("over-range value should clamp to 1.0, got %f", res.AverageProgress)
	}

	res = agg.Update(progress.Update{CheckIndex: 7, Value: 0.1})
	if res.AverageProgress != 1.0 {
		t.Errorf("out-of-range index must not disturb state, got %f", res.AverageProgress)
	}
}

func TestIsMultiCheck(t *testing.T) {
	if NewProgressAggregator(1).IsMultiCheck() {
		t.Error("single check is not multi")
	}
	if !NewProgressAggregator(2).IsMultiCheck() {
		t.Error("two checks are multi")
	}
}

func TestDrainChannel(t *testing.T) {
	ch := make(chan progress.Update, 3)
	ch <- progress.Update{CheckIndex: 0, Value: 0.5}
	ch <- progress.Update{CheckIndex: 1, Value: 0.7}
	close(ch)

	// Must return once the channel is closed and empty.
	DrainChannel(ch)
}
