package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/fibgrade/internal/format"
	"github.com/agbru/fibgrade/internal/trace"
)

// chartHistory is the number of samples kept per monitored series.
const chartHistory = 120

// ChartModel renders the bracket work profile of the traced submission
// together with CPU and memory sparklines sampled while checks run.
type ChartModel struct {
	cpu    *SampleWindow
	mem    *SampleWindow
	work   []float64
	done   bool
	doneIn time.Duration
	width  int
	height int
}

// NewChartModel creates a new chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		cpu: NewSampleWindow(chartHistory),
		mem: NewSampleWindow(chartHistory),
	}
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// SetWorkSamples records the traced step counts per bracket, in index
// order. The series is static for a run and self-scaled when rendered.
func (c *ChartModel) SetWorkSamples(steps []float64) {
	c.work = steps
}

// UpdateSysStats records a host sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpu.Push(cpuPercent)
	c.mem.Push(memPercent)
}

// SetDone marks the run as finished after the given duration.
func (c *ChartModel) SetDone(d time.Duration) {
	c.done = true
	c.doneIn = d
}

// Reset clears the host samples. The work series describes the traced
// footprint, which a restart re-grades unchanged, so it stays.
func (c *ChartModel) Reset() {
	c.cpu.Reset()
	c.mem.Reset()
	c.done = false
	c.doneIn = 0
}

// View renders the chart panel.
func (c ChartModel) View() string {
	innerWidth := c.width - 7
	if innerWidth < 10 {
		innerWidth = 10
	}

	var b strings.Builder

	if len(c.work) > 0 {
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			metricLabelStyle.Render("Work"),
			workSparklineStyle.Render(c.scaledRow(c.work, innerWidth)),
			metricValueStyle.Render(fmt.Sprintf("%.0f steps", c.work[len(c.work)-1]))))
	}

	b.WriteString(fmt.Sprintf("  %s %s %s\n",
		metricLabelStyle.Render("CPU "),
		cpuSparklineStyle.Render(c.percentRow(c.cpu, innerWidth)),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.cpu.Last()))))

	b.WriteString(fmt.Sprintf("  %s %s %s",
		metricLabelStyle.Render("Mem "),
		memSparklineStyle.Render(c.percentRow(c.mem, innerWidth)),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.mem.Last()))))

	if c.done {
		b.WriteString("\n\n  ")
		b.WriteString(statusDoneStyle.Render(
			fmt.Sprintf("Finished in %s", format.FormatExecutionDuration(c.doneIn))))
	}

	return panelStyle.
		Width(c.width - 2).
		Height(c.height - 2).
		Render(b.String())
}

// percentRow renders a live percentage series right-aligned within width.
func (c ChartModel) percentRow(w *SampleWindow, width int) string {
	return alignRight(RenderSparkline(trimToWidth(w.Slice(), width)), width)
}

// scaledRow renders a self-scaled series right-aligned within width.
func (c ChartModel) scaledRow(values []float64, width int) string {
	return alignRight(RenderScaledSparkline(trimToWidth(values, width)), width)
}

// trimToWidth keeps the most recent samples that fit the row.
func trimToWidth(values []float64, width int) []float64 {
	if len(values) > width {
		return values[len(values)-width:]
	}
	return values
}

// alignRight pads a sparkline so the newest sample sits at the right edge.
func alignRight(line string, width int) string {
	if pad := width - len([]rune(line)); pad > 0 {
		return strings.Repeat(" ", pad) + line
	}
	return line
}

// workSeries extracts the per-bracket step counts from a footprint, in
// recorded order.
func workSeries(fp *trace.Footprint) []float64 {
	if fp == nil {
		return nil
	}
	out := make([]float64, 0, len(fp.Complexity))
	for _, sample := range fp.Complexity {
		out = append(out, float64(sample.Steps()))
	}
	return out
}
