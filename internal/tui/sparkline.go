package tui

// sparkRunes are the eight block glyphs used to plot one sample each.
var sparkRunes = [...]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SampleWindow keeps the most recent samples of a charted series. The
// chart panel holds one per live series (CPU, memory); the bracket work
// series is static and bypasses the window.
type SampleWindow struct {
	data []float64
	max  int
}

// NewSampleWindow creates a window holding at most max samples.
func NewSampleWindow(max int) *SampleWindow {
	if max <= 0 {
		max = 1
	}
	return &SampleWindow{data: make([]float64, 0, max), max: max}
}

// Push appends a sample, dropping the oldest once the window is full.
func (w *SampleWindow) Push(v float64) {
	if len(w.data) == w.max {
		copy(w.data, w.data[1:])
		w.data = w.data[:len(w.data)-1]
	}
	w.data = append(w.data, v)
}

// Len returns the number of held samples.
func (w *SampleWindow) Len() int { return len(w.data) }

// Cap returns the window size.
func (w *SampleWindow) Cap() int { return w.max }

// Last returns the most recent sample, or 0 when empty.
func (w *SampleWindow) Last() float64 {
	if len(w.data) == 0 {
		return 0
	}
	return w.data[len(w.data)-1]
}

// Slice returns a copy of the samples, oldest first.
func (w *SampleWindow) Slice() []float64 {
	if len(w.data) == 0 {
		return nil
	}
	out := make([]float64, len(w.data))
	copy(out, w.data)
	return out
}

// Resize changes the window size, keeping the most recent samples.
func (w *SampleWindow) Resize(max int) {
	if max <= 0 {
		max = 1
	}
	w.max = max
	if len(w.data) > max {
		w.data = append(w.data[:0], w.data[len(w.data)-max:]...)
	}
}

// Reset discards all samples.
func (w *SampleWindow) Reset() {
	w.data = w.data[:0]
}

// RenderSparkline plots percentage samples (0..100), one glyph per value.
func RenderSparkline(values []float64) string {
	return renderSpark(values, 100)
}

// RenderScaledSparkline plots samples against the largest value in the
// series. Step-count series have no fixed ceiling, so each frame scales
// to its own maximum.
func RenderScaledSparkline(values []float64) string {
	var ceiling float64
	for _, v := range values {
		if v > ceiling {
			ceiling = v
		}
	}
	return renderSpark(values, ceiling)
}

// renderSpark maps each value in [0, ceiling] to one block glyph,
// clamping out-of-range values.
func renderSpark(values []float64, ceiling float64) string {
	if len(values) == 0 {
		return ""
	}
	if ceiling <= 0 {
		ceiling = 1
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		if v > ceiling {
			v = ceiling
		}
		runes[i] = sparkRunes[int(v/ceiling*float64(len(sparkRunes)-1))]
	}
	return string(runes)
}
