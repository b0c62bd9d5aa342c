package cli

import (
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibgrade/internal/progress"
)

// MockSpinner for testing
type MockSpinner struct {
	started bool
	stopped bool
	suffix  string
}

func (m *MockSpinner) Start() {
	m.started = true
}

func (m *MockSpinner) Stop() {
	m.stopped = true
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.suffix = suffix
}

func TestProgressBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		progress float64
		length   int
		filled   int
	}{
		{"Empty", 0.0, 10, 0},
		{"Half", 0.5, 10, 5},
		{"Full", 1.0, 10, 10},
		{"Over one clamps", 1.5, 10, 10},
		{"Negative clamps", -0.3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bar := progressBar(tt.progress, tt.length)
			filled := strings.Count(bar, "█")
			if filled != tt.filled {
				t.Errorf("Expected %d filled cells, got %d (%q)", tt.filled, filled, bar)
			}
			if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.length {
				t.Errorf("Expected total width %d, got %d", tt.length, got)
			}
		})
	}
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	rs := &realSpinner{s}

	// Just verify these methods don't panic
	rs.Start()
	rs.UpdateSuffix(" test")
	rs.Stop()
}

func TestDisplayProgress(t *testing.T) {
	originalNewSpinner := newSpinner
	defer func() { newSpinner = originalNewSpinner }()

	mockS := &MockSpinner{}
	newSpinner = func(options ...spinner.Option) Spinner {
		return mockS
	}

	var wg sync.WaitGroup
	wg.Add(1)

	progressChan := make(chan progress.Update)

	go func() {
		progressChan <- progress.Update{CheckIndex: 0, Label: "fib-iterative", Value: 0.5}
		progressChan <- progress.Update{CheckIndex: 0, Label: "fib-iterative", Value: 1.0}
		close(progressChan)
	}()

	DisplayProgress(&wg, progressChan, 1, io.Discard)
	wg.Wait()

	if !mockS.started {
		t.Error("Spinner should have started")
	}
	if !mockS.stopped {
		t.Error("Spinner should have stopped")
	}
	if !strings.Contains(mockS.suffix, "100.0%") {
		t.Errorf("Final suffix should show full progress, got %q", mockS.suffix)
	}
	if !strings.Contains(mockS.suffix, "fib-iterative") {
		t.Errorf("Suffix should carry the check label, got %q", mockS.suffix)
	}
}

func TestDisplayProgress_ZeroChecks(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	progressChan := make(chan progress.Update)
	close(progressChan)

	DisplayProgress(&wg, progressChan, 0, io.Discard)
	wg.Wait()
	// Should return immediately without spinning
}
