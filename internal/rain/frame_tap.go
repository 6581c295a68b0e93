package rain

// frameTap records the wall-clock length of recent frames into a ring buffer
// so the debug overlay can report a frame rate.
type frameTap struct {
	buffer    []float64
	nextIndex int
	filled    int
}

func newFrameTap(ringSize int) *frameTap {
	return &frameTap{buffer: make([]float64, ringSize)}
}

func (t *frameTap) record(deltaMs float64) {
	t.buffer[t.nextIndex] = deltaMs
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
}

// snapshot returns up to the last n frame lengths, oldest first.
func (t *frameTap) snapshot(n int) []float64 {
	if n > t.filled {
		n = t.filled
	}
	out := make([]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := 0; i < n; i++ {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

// fps averages the recorded frames; zero-length frames are ignored.
func (t *frameTap) fps() float64 {
	var sum float64
	var n int
	for _, d := range t.snapshot(t.filled) {
		if d > 0 {
			sum += d
			n++
		}
	}
	if n == 0 || sum == 0 {
		return 0
	}
	return 1000 * float64(n) / sum
}
