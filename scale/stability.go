package scale

import "gonum.org/v1/gonum/stat"

// A reading counts as stable once the last stabilityDepth refresh totals
// scatter less than stabilityBand centigrams (sample standard deviation).
// Purely advisory; nothing in the computation path depends on it.
const (
	stabilityDepth = 8
	stabilityBand  = 15.0
)

type stabilityTracker struct {
	window [stabilityDepth]float64
	fill   int
	idx    int
}

func (t *stabilityTracker) add(total Centigrams) {
	t.window[t.idx] = float64(total)
	t.idx = (t.idx + 1) % stabilityDepth
	if t.fill < stabilityDepth {
		t.fill++
	}
}

func (t *stabilityTracker) stable() bool {
	if t.fill < stabilityDepth {
		return false
	}
	return stat.StdDev(t.window[:], nil) < stabilityBand
}

func (t *stabilityTracker) reset() {
	t.fill, t.idx = 0, 0
}
