package loadcell

import (
	"testing"
	"time"
)

func TestSimADCRequiresBegin(t *testing.T) {
	s := NewSimADC()
	if err := s.Update(); err == nil {
		t.Error("Update before Begin succeeded")
	}
	if _, err := s.StartStabilization(0); err == nil {
		t.Error("StartStabilization before Begin succeeded")
	}
}

func TestSimADCTareAndCalibration(t *testing.T) {
	s := NewSimADC()
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	ready, err := s.StartStabilization(0)
	if err != nil {
		t.Fatalf("StartStabilization: %v", err)
	}
	if !ready {
		t.Fatal("zero-length window did not complete on first poll")
	}
	if got := s.Data(); got != 0 {
		t.Fatalf("Data after tare = %v, want 0", got)
	}

	s.SetLoad(10)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// factor still 1: net counts
	if got := s.Data(); got != 4300 {
		t.Fatalf("net counts = %v, want 4300", got)
	}
	s.SetCalFactor(430)
	if got := s.Data(); got != 10 {
		t.Fatalf("calibrated Data = %v, want 10", got)
	}
}

func TestSimADCRetareZeroesCurrentLoad(t *testing.T) {
	s := NewSimADC()
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.StartStabilization(0); err != nil {
		t.Fatalf("first tare: %v", err)
	}
	s.SetLoad(25)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// second window opens fresh and nulls the standing load
	ready, err := s.StartStabilization(0)
	if err != nil {
		t.Fatalf("second tare: %v", err)
	}
	if !ready {
		t.Fatal("second window did not complete")
	}
	if got := s.Data(); got != 0 {
		t.Fatalf("Data after re-tare = %v, want 0", got)
	}
}

func TestSimADCStabilizationWindowIsPolled(t *testing.T) {
	s := NewSimADC()
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	start := time.Now()
	ready, err := s.StartStabilization(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("StartStabilization: %v", err)
	}
	if ready {
		t.Fatal("window completed on the opening poll")
	}
	for !ready {
		if time.Since(start) > time.Second {
			t.Fatal("window never completed")
		}
		time.Sleep(time.Millisecond)
		ready, err = s.StartStabilization(20 * time.Millisecond)
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("window closed after %v, configured 20ms", elapsed)
	}
}

func TestSimADCHoldNeverCompletes(t *testing.T) {
	s := NewSimADC()
	s.Hold = true
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	for i := 0; i < 50; i++ {
		ready, err := s.StartStabilization(0)
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if ready {
			t.Fatal("held converter reported ready")
		}
	}
}

func TestSimADCIgnoresZeroFactor(t *testing.T) {
	s := NewSimADC()
	if err := s.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.StartStabilization(0); err != nil {
		t.Fatalf("tare: %v", err)
	}
	s.SetLoad(10)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	s.SetCalFactor(0) // must not divide by zero
	if got := s.Data(); got != 4300 {
		t.Fatalf("Data = %v, want 4300 with factor unchanged", got)
	}
	if got := s.CalFactorSets(); got != 1 {
		t.Errorf("CalFactorSets = %d, want 1", got)
	}
}
