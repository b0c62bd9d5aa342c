package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryCollector reads runtime memory statistics. A grading run takes a
// snapshot before and after tracing so verbose reports can show what the
// footprint cost.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// Delta summarizes the growth between two snapshots. GC can shrink
// HeapAlloc between readings; negative growth reports as zero.
type Delta struct {
	HeapAllocGrowth uint64
	GCCycles        uint32
}

// DeltaBetween computes the growth from before to after.
func DeltaBetween(before, after MemorySnapshot) Delta {
	d := Delta{GCCycles: after.NumGC - before.NumGC}
	if after.HeapAlloc > before.HeapAlloc {
		d.HeapAllocGrowth = after.HeapAlloc - before.HeapAlloc
	}
	return d
}
