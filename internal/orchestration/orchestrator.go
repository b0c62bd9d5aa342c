package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/progress"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/student"
)

// CheckTask pairs one submission with one reference to grade it against.
type CheckTask struct {
	Reference  *reference.ReferenceImplementation
	Submission *student.Implementation
}

// ProgressBufferMultiplier defines the buffer size multiplier for the
// progress channel. A larger buffer reduces the likelihood of blocking
// check goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

// ExecuteChecks orchestrates the concurrent grading of a batch of check
// tasks.
//
// It manages the lifecycle of check goroutines, collects their results in
// task order, and coordinates the display of progress updates. Grading a
// footprint is pure computation, so a task only fails when its context is
// canceled before it starts.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - tasks: The checks to execute.
//   - progressReporter: The progress reporter for displaying updates (use
//     NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []CheckResult: A slice containing the result of each check.
func ExecuteChecks(ctx context.Context, tasks []CheckTask, progressReporter ProgressReporter, out io.Writer) []CheckResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CheckResult, len(tasks))
	progressChan := make(chan progress.Update, len(tasks)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(tasks), out)

	for i, t := range tasks {
		idx, task := i, t
		g.Go(func() error {
			startTime := time.Now()
			res := CheckResult{
				Reference:  task.Reference.Name(),
				Submission: task.Submission.Name(),
			}

			progressChan <- progress.Update{CheckIndex: idx, Label: res.Reference, Value: 0}
			if err := ctx.Err(); err != nil {
				res.Err = apperrors.WrapError(err, "check %q", res.Reference)
			} else {
				res.Result = task.Submission.CheckAgainst(task.Reference)
			}
			progressChan <- progress.Update{CheckIndex: idx, Label: res.Reference, Value: 1}

			res.Duration = time.Since(startTime)
			results[idx] = res
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeCheckResults processes the results of a grading run and produces
// the final verdict.
//
// It sorts the results (failures last, then by duration), displays the
// summary table and the detailed report, and determines the process exit
// code from the individual outcomes.
//
// Parameters:
//   - results: The check results to analyze.
//   - filter: Which references appear in the detailed report.
//   - presenter: The result presenter for display formatting.
//   - errorHandler: Maps the first execution error to an exit code.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeCheckResults(results []CheckResult, filter reference.ReportFilter, presenter ResultPresenter, errorHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstError error
	ranCount := 0
	correctCount := 0
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		ranCount++
		if results[i].Correct() {
			correctCount++
		}
	}

	presenter.PresentCheckTable(results, out)

	if ranCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No check could be completed.\n")
		return errorHandler.HandleError(firstError, out)
	}

	presenter.PresentReport(results, filter, out)

	if correctCount < ranCount {
		fmt.Fprintf(out, "\nGlobal Status: %d of %d references unsatisfied.\n", ranCount-correctCount, ranCount)
		return apperrors.ExitErrorCheckFailed
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All %d references satisfied.\n", ranCount)
	return apperrors.ExitSuccess
}
