package scale

import (
	"fmt"
	"time"

	"github.com/CK6170/cgscale-go/loadcell"
)

// ChannelState tracks a channel through startup.
type ChannelState string

const (
	ChannelIdle        ChannelState = "idle"
	ChannelStabilizing ChannelState = "stabilizing"
	ChannelReady       ChannelState = "ready"
)

// Channel wraps one converter with the readiness state machine. Not safe
// for concurrent use; the control loop is the single owner.
type Channel struct {
	name   string
	adc    loadcell.ADC
	factor float64
	state  ChannelState
}

// NewChannel ties a converter to its configured calibration factor.
func NewChannel(name string, adc loadcell.ADC, factor float64) *Channel {
	return &Channel{name: name, adc: adc, factor: factor, state: ChannelIdle}
}

func (c *Channel) Name() string        { return c.name }
func (c *Channel) State() ChannelState { return c.state }
func (c *Channel) Ready() bool         { return c.state == ChannelReady }

// Factor is the configured counts-per-gram scale for this channel.
func (c *Channel) Factor() float64 { return c.factor }

// Begin initializes the converter.
func (c *Channel) Begin() error {
	if err := c.adc.Begin(); err != nil {
		return fmt.Errorf("%s channel: %w", c.name, err)
	}
	return nil
}

// StartStabilization advances the tare window. Poll until it reports
// ready; once ready it stays ready until Reset.
func (c *Channel) StartStabilization(d time.Duration) (bool, error) {
	if c.state == ChannelReady {
		return true, nil
	}
	c.state = ChannelStabilizing
	ready, err := c.adc.StartStabilization(d)
	if err != nil {
		return false, fmt.Errorf("%s channel: %w", c.name, err)
	}
	if ready {
		c.state = ChannelReady
	}
	return ready, nil
}

// SetCalibrationFactor pushes a factor to the converter. Only meaningful
// after stabilization completes; the synchronizer calls it exactly once
// per bring-up.
func (c *Channel) SetCalibrationFactor(factor float64) {
	c.adc.SetCalFactor(factor)
}

// Sample polls the converter for fresh data. Must run on every control
// loop pass.
func (c *Channel) Sample() error { return c.adc.Update() }

// LatestWeight is the newest calibrated reading in grams. Stale before
// the channel is ready.
func (c *Channel) LatestWeight() float64 { return c.adc.Data() }

// Reset returns the channel to Idle so the next synchronizer run
// re-tares it.
func (c *Channel) Reset() { c.state = ChannelIdle }
