package tui

import (
	"time"

	"github.com/agbru/fibgrade/internal/orchestration"
)

// Message types exchanged between the bridge goroutines and the
// bubbletea update loop.

// ProgressMsg carries an aggregated progress update from a running check.
type ProgressMsg struct {
	CheckIndex      int
	Label           string
	Value           float64
	AverageProgress float64
}

// ProgressDoneMsg signals that the progress channel has closed.
type ProgressDoneMsg struct{}

// CheckResultsMsg carries the final check summary table.
type CheckResultsMsg struct {
	Results []orchestration.CheckResult
}

// ReportMsg carries the rendered annotation report text.
type ReportMsg struct {
	Report string
}

// ErrorMsg carries a fatal grading error.
type ErrorMsg struct {
	Err error
}

// TickMsg drives periodic UI refreshes and stat sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// GradingCompleteMsg signals that all checks have finished.
type GradingCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg signals that the parent context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
