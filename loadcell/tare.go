package loadcell

import "time"

// tareWindow accumulates raw counts over a stabilization window and
// yields the zero offset when the window closes.
type tareWindow struct {
	open     bool
	deadline time.Time
	sum      float64
	n        int
}

func (w *tareWindow) begin(now time.Time, d time.Duration) {
	w.open = true
	w.deadline = now.Add(d)
	w.sum, w.n = 0, 0
}

func (w *tareWindow) add(raw float64) {
	if w.open {
		w.sum += raw
		w.n++
	}
}

// done closes the window once the deadline has passed and returns the
// averaged offset.
func (w *tareWindow) done(now time.Time) (float64, bool) {
	if !w.open || now.Before(w.deadline) {
		return 0, false
	}
	w.open = false
	if w.n == 0 {
		return 0, true
	}
	return w.sum / float64(w.n), true
}
