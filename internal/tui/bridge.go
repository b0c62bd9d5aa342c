package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/fibgrade/internal/errors"
	"github.com/agbru/fibgrade/internal/orchestration"
	"github.com/agbru/fibgrade/internal/progress"
	"github.com/agbru/fibgrade/internal/reference"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, numChecks int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numChecks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			CheckIndex:      ap.CheckIndex,
			Label:           ap.Label,
			Value:           ap.Value,
			AverageProgress: ap.AverageProgress,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends result messages to the TUI instead of writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentCheckTable sends the check summary to the TUI.
func (t *TUIResultPresenter) PresentCheckTable(results []orchestration.CheckResult, _ io.Writer) {
	t.ref.Send(CheckResultsMsg{Results: results})
}

// PresentReport renders the annotation report and sends it to the TUI.
func (t *TUIResultPresenter) PresentReport(results []orchestration.CheckResult, filter reference.ReportFilter, _ io.Writer) {
	refResults := make([]reference.ReferenceResult, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		refResults = append(refResults, res.Result)
	}
	t.ref.Send(ReportMsg{Report: reference.GenerateReport(refResults, filter)})
}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, _ io.Writer) int {
	t.ref.Send(ErrorMsg{Err: err})
	return apperrors.ExitCodeForError(err)
}
