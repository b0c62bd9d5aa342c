package cli

import (
	"fmt"
	"io"
	"sync"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/format"
	"github.com/agbru/fibgrade/internal/metrics"
	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/progress"
	"github.com/agbru/fibgrade/internal/reference"
	"github.com/agbru/fibgrade/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI
// output. It wraps the DisplayProgress function to provide a spinner and
// progress bar display during grading.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing checks.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numChecks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI
// output. It provides formatted, colorized output for grading results in
// the command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentCheckTable displays the grading summary table with reference
// names, durations, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func (CLIResultPresenter) PresentCheckTable(results []orchestration.CheckResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Check Summary ---\n")

	// Find the maximum reference name width for proper alignment
	maxNameLen := 9     // "Reference" header length
	maxDurationLen := 8 // "Duration" header length
	for _, res := range results {
		if len(res.Reference) > maxNameLen {
			maxNameLen = len(res.Reference)
		}
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		if len(duration) > maxDurationLen {
			maxDurationLen = len(duration)
		}
	}

	// Print header with proper padding
	fmt.Fprintf(out, "%sReference%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-9),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-8),
		ui.ColorUnderline(), ui.ColorReset())

	// Print each result row
	for _, res := range results {
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Error (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		case res.Correct():
			status = fmt.Sprintf("%s✅ Satisfied%s", ui.ColorGreen(), ui.ColorReset())
		default:
			status = fmt.Sprintf("%s✗ Unsatisfied (%d/%d)%s", ui.ColorRed(),
				len(res.Result.Satisfied()), len(res.Result.Results), ui.ColorReset())
		}
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Reference, ui.ColorReset(), padRight("", maxNameLen-len(res.Reference)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			status)
	}
}

// padRight returns a string of spaces with the given length.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentReport displays the detailed annotation report.
func (CLIResultPresenter) PresentReport(results []orchestration.CheckResult, filter reference.ReportFilter, out io.Writer) {
	refResults := make([]reference.ReferenceResult, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		refResults = append(refResults, res.Result)
	}

	report := reference.GenerateReport(refResults, filter)
	if report == "" {
		return
	}
	fmt.Fprintf(out, "\n--- Annotation Report ---\n%s", report)
}

// HandleError writes a diagnostic for a failed check and returns the
// matching exit code.
func (CLIResultPresenter) HandleError(err error, out io.Writer) int {
	if err == nil {
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	return apperrors.ExitCodeForError(err)
}

// DisplayMemoryStats shows the memory cost of a grading run.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Heap from OS:    %s\n", format.FormatBytes(snap.HeapSys))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	if snap.PauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}
