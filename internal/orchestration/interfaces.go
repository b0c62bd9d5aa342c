package orchestration

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/fibgrade/internal/progress"
	"github.com/agbru/fibgrade/internal/reference"
)

// CheckResult encapsulates the outcome of grading one submission against
// one reference implementation. It is the shared domain type between the
// orchestration and presentation layers.
type CheckResult struct {
	// Reference is the name of the checked reference implementation.
	Reference string
	// Submission is the name of the graded submission.
	Submission string
	// Result holds the per-annotation outcomes. Zero value if Err is set.
	Result reference.ReferenceResult
	// Duration is the time taken to run the check.
	Duration time.Duration
	// Err contains any error that occurred while tracing or grading.
	Err error
}

// Correct reports whether the check ran without error and every
// annotation was satisfied.
func (r CheckResult) Correct() bool {
	return r.Err == nil && r.Result.Correct()
}

// ProgressReporter defines the interface for displaying grading progress.
// It decouples the orchestration layer from the presentation layer so the
// same execution path serves the CLI spinner, the TUI, and quiet mode.
type ProgressReporter interface {
	// DisplayProgress consumes progress updates until the channel closes.
	// It should be called in a separate goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving updates from running checks.
	//   - numChecks: The number of concurrent checks being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements
// ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, out io.Writer) {
	f(wg, progressChan, numChecks, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter. It
// drains the progress channel without displaying anything, for quiet mode
// and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// ResultPresenter defines the interface for presenting grading results,
// allowing different output formats without modifying the orchestration
// logic.
type ResultPresenter interface {
	// PresentCheckTable displays the per-reference summary table.
	PresentCheckTable(results []CheckResult, out io.Writer)

	// PresentReport displays the detailed annotation report, filtered.
	PresentReport(results []CheckResult, filter reference.ReportFilter, out io.Writer)
}

// ErrorHandler maps check errors to exit codes, emitting diagnostics
// along the way.
type ErrorHandler interface {
	HandleError(err error, out io.Writer) int
}
