//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/progress"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress
	// display.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows the decoupling of DisplayProgress from a specific spinner
// implementation, facilitating easier testing and maintenance. It defines
// the essential controls for a spinner: starting, stopping, and updating
// its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
//
// Parameters:
//   - suffix: The string to display.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress consumes check progress updates and renders a spinner
// with an aggregated progress bar. It runs until progressChan closes and
// then signals wg.
//
// Parameters:
//   - wg: Signaled when the display loop finishes.
//   - progressChan: Channel receiving updates from running checks.
//   - numChecks: The number of concurrent checks being tracked.
//   - out: The writer for the spinner output.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, out io.Writer) {
	defer wg.Done()

	aggregator := orchestration.NewProgressAggregator(numChecks)
	if aggregator == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	sp := newSpinner(spinner.WithWriter(out))
	sp.UpdateSuffix(fmt.Sprintf(" Checking [%s] 0.0%%", progressBar(0, ProgressBarWidth)))
	sp.Start()
	defer sp.Stop()

	for update := range progressChan {
		agg := aggregator.Update(update)
		sp.UpdateSuffix(fmt.Sprintf(" Checking %s [%s] %.1f%%",
			agg.Label, progressBar(agg.AverageProgress, ProgressBarWidth), agg.AverageProgress*100))
	}
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
