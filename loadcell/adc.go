// Package loadcell defines the converter contract the scale core polls,
// with a serial-bridge implementation and a deterministic simulator.
package loadcell

import "time"

// ADC is one load-cell converter channel.
//
// Begin initializes the underlying hardware. StartStabilization runs the
// warm-up/tare window; it is non-blocking, samples internally, and is
// polled until it reports ready. Calling it again after ready opens a
// fresh window (re-tare). Update polls for new samples and must be called
// at least as often as the converter's data rate or the effective sample
// rate silently degrades. Data returns the latest calibrated weight in
// grams; before the first stabilization completes it is undefined.
type ADC interface {
	Begin() error
	StartStabilization(d time.Duration) (bool, error)
	SetCalFactor(factor float64)
	Update() error
	Data() float64
}
