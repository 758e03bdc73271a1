package scale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CK6170/cgscale-go/loadcell"
)

func simPair() (front, rear *loadcell.SimADC) {
	return loadcell.NewSimADC(), loadcell.NewSimADC()
}

func TestSynchronizerBringsBothReady(t *testing.T) {
	frontADC, rearADC := simPair()
	front := NewChannel("front", frontADC, 430)
	rear := NewChannel("rear", rearADC, 455)

	var events []SyncEvent
	s := &Synchronizer{
		Front:   front,
		Rear:    rear,
		Window:  10 * time.Millisecond,
		Poll:    time.Millisecond,
		OnEvent: func(ev SyncEvent) { events = append(events, ev) },
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !front.Ready() || !rear.Ready() {
		t.Fatalf("states after Run: front %s, rear %s", front.State(), rear.State())
	}
	// factor pushed exactly once per bring-up
	if n := frontADC.CalFactorSets(); n != 1 {
		t.Errorf("front SetCalFactor calls = %d, want 1", n)
	}
	if n := rearADC.CalFactorSets(); n != 1 {
		t.Errorf("rear SetCalFactor calls = %d, want 1", n)
	}
	// each channel transitions stabilizing then ready
	if len(events) != 4 {
		t.Fatalf("got %d transitions, want 4: %+v", len(events), events)
	}
	for _, ev := range events[2:] {
		if ev.State != ChannelReady {
			t.Errorf("late transition %+v, want ready", ev)
		}
	}
}

func TestSynchronizerSlowChannelDoesNotBlockFast(t *testing.T) {
	frontADC, rearADC := simPair()
	rearADC.Hold = true
	front := NewChannel("front", frontADC, 430)
	rear := NewChannel("rear", rearADC, 455)

	s := &Synchronizer{
		Front:  front,
		Rear:   rear,
		Window: 5 * time.Millisecond,
		Poll:   time.Millisecond,
		OnEvent: func(ev SyncEvent) {
			// release the held channel only after the fast one finished;
			// Run must still converge
			if ev.Channel == "front" && ev.State == ChannelReady {
				if rear.Ready() {
					t.Error("rear ready before front despite hold")
				}
				rearADC.Hold = false
			}
		},
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !front.Ready() || !rear.Ready() {
		t.Fatalf("states after Run: front %s, rear %s", front.State(), rear.State())
	}
}

func TestSynchronizerTimeout(t *testing.T) {
	frontADC, rearADC := simPair()
	rearADC.Hold = true
	s := &Synchronizer{
		Front:   NewChannel("front", frontADC, 430),
		Rear:    NewChannel("rear", rearADC, 455),
		Window:  5 * time.Millisecond,
		Poll:    time.Millisecond,
		Timeout: 40 * time.Millisecond,
	}
	err := s.Run(context.Background())
	if !errors.Is(err, ErrStabilizeTimeout) {
		t.Fatalf("Run error = %v, want ErrStabilizeTimeout", err)
	}
}

func TestSynchronizerHonorsCancel(t *testing.T) {
	frontADC, rearADC := simPair()
	frontADC.Hold = true
	rearADC.Hold = true
	s := &Synchronizer{
		Front:  NewChannel("front", frontADC, 430),
		Rear:   NewChannel("rear", rearADC, 455),
		Window: 5 * time.Millisecond,
		Poll:   time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
}
