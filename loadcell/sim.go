package loadcell

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// SimADC is a deterministic stand-in converter for bench-less runs and
// tests. It models a cell that produces CountsPerGram counts per gram of
// load on top of a fixed empty-rig count. Load changes come from SetLoad;
// Wobble adds a small repeatable ripple so live views have something to
// show.
type SimADC struct {
	CountsPerGram float64
	EmptyCounts   float64
	Wobble        float64 // ripple amplitude, grams
	Hold          bool    // stabilization never completes while set

	mu      sync.Mutex
	begun   bool
	load    float64
	updates int
	raw     float64
	factor  float64
	offset  float64
	tare    tareWindow
	ready   bool
	calSets int
}

func NewSimADC() *SimADC {
	return &SimADC{CountsPerGram: 430, EmptyCounts: 81250, factor: 1}
}

// SetLoad places grams on the simulated cell.
func (s *SimADC) SetLoad(grams float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load = grams
}

func (s *SimADC) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.begun = true
	s.sample()
	return nil
}

func (s *SimADC) Update() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun {
		return fmt.Errorf("converter not started")
	}
	s.sample()
	return nil
}

func (s *SimADC) StartStabilization(d time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.begun {
		return false, fmt.Errorf("converter not started")
	}
	if s.Hold {
		return false, nil
	}
	now := time.Now()
	if !s.tare.open {
		s.tare.begin(now, d)
		s.ready = false
	}
	s.sample()
	s.tare.add(s.raw)
	offset, ok := s.tare.done(now)
	if !ok {
		return false, nil
	}
	s.offset = offset
	s.ready = true
	return true, nil
}

func (s *SimADC) SetCalFactor(factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if factor != 0 {
		s.factor = factor
	}
	s.calSets++
}

func (s *SimADC) Data() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.raw - s.offset) / s.factor
}

// Ready reports whether a stabilization window has completed.
func (s *SimADC) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// CalFactorSets counts SetCalFactor invocations, for tests.
func (s *SimADC) CalFactorSets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calSets
}

func (s *SimADC) sample() {
	load := s.load
	if s.Wobble != 0 {
		load += s.Wobble * math.Sin(float64(s.updates)*0.37)
	}
	s.raw = s.EmptyCounts + load*s.CountsPerGram
	s.updates++
}
