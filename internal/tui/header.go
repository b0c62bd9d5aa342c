package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fibgrade/internal/format"
)

// HeaderModel renders the top bar: title, graded submission, reference
// count, and the elapsed timer.
type HeaderModel struct {
	startTime  time.Time
	endTime    time.Time
	version    string
	submission string
	refCount   int
	width      int
}

// NewHeaderModel creates a header for the given grading run.
func NewHeaderModel(version, submission string, refCount int) HeaderModel {
	return HeaderModel{
		startTime:  time.Now(),
		version:    version,
		submission: submission,
		refCount:   refCount,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// elapsed returns the run duration, frozen once SetDone was called.
func (h HeaderModel) elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header as a single padded row.
func (h HeaderModel) View() string {
	titleText := "Fibonacci Grader"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}

	segments := []string{titleStyle.Render(titleText)}
	if h.submission != "" {
		segments = append(segments, elapsedStyle.Render("grading "+h.submission))
	}
	if h.refCount > 0 {
		noun := "refs"
		if h.refCount == 1 {
			noun = "ref"
		}
		segments = append(segments, versionStyle.Render(fmt.Sprintf("%d %s", h.refCount, noun)))
	}
	segments = append(segments, elapsedStyle.Render(
		fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.elapsed()))))

	row := strings.Join(segments, versionStyle.Render(" | "))

	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}

	return headerStyle.Width(h.width).Render(row)
}
