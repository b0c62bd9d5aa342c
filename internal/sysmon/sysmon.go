// Package sysmon samples host CPU and memory pressure for the grading
// dashboard. Grading runs are short; charting these samples alongside
// the check log lets a noisy host be told apart from a slow submission.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats is one snapshot of host resource usage, in percent.
type Stats struct {
	CPUPercent float64
	MemPercent float64
}

// Clamp bounds both fields to [0, 100]. gopsutil can report transient
// readings slightly outside the range on some platforms, which would
// distort the dashboard sparklines.
func (s Stats) Clamp() Stats {
	s.CPUPercent = clampPercent(s.CPUPercent)
	s.MemPercent = clampPercent(s.MemPercent)
	return s
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Sample takes one host-wide snapshot. CPU usage is the delta since the
// previous call (interval zero); errors degrade to zero values so the
// dashboard keeps rendering on hosts where gopsutil has no backend.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		s.MemPercent = vm.UsedPercent
	}
	return s
}
