package scale

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStabilizeTimeout reports a channel whose tare window never closed
// within the configured limit.
var ErrStabilizeTimeout = errors.New("stabilization timed out")

// SyncEvent is one channel state transition during bring-up, for
// interactive front ends.
type SyncEvent struct {
	Channel string
	State   ChannelState
}

// Synchronizer drives both channels through stabilization together, so
// the combined warm-up costs the slower channel's time rather than the
// sum of both.
type Synchronizer struct {
	Front, Rear *Channel

	Window  time.Duration // tare window per channel
	Poll    time.Duration // sleep between convergence passes
	Timeout time.Duration // 0 waits forever, matching the firmware
	OnEvent func(SyncEvent)
}

// Run initializes both converters, then polls StartStabilization on
// whichever channel is not yet ready until both are. Once both report
// ready it pushes each channel's configured factor exactly once.
// Without a Timeout a channel that never settles blocks until ctx is
// cancelled.
func (s *Synchronizer) Run(ctx context.Context) error {
	if s.Front == nil || s.Rear == nil {
		return fmt.Errorf("synchronizer needs both channels")
	}
	if err := s.Front.Begin(); err != nil {
		return err
	}
	if err := s.Rear.Begin(); err != nil {
		return err
	}

	poll := s.Poll
	if poll <= 0 {
		poll = 2 * time.Millisecond
	}
	var deadline time.Time
	if s.Timeout > 0 {
		deadline = time.Now().Add(s.Timeout)
	}

	for !s.Front.Ready() || !s.Rear.Ready() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return fmt.Errorf("%w after %s (front %s, rear %s)",
				ErrStabilizeTimeout, s.Timeout, s.Front.State(), s.Rear.State())
		}
		for _, ch := range []*Channel{s.Front, s.Rear} {
			if ch.Ready() {
				continue
			}
			prev := ch.State()
			if _, err := ch.StartStabilization(s.Window); err != nil {
				return err
			}
			if st := ch.State(); st != prev && s.OnEvent != nil {
				s.OnEvent(SyncEvent{Channel: ch.Name(), State: st})
			}
		}
		time.Sleep(poll)
	}

	s.Front.SetCalibrationFactor(s.Front.Factor())
	s.Rear.SetCalibrationFactor(s.Rear.Factor())
	return nil
}
