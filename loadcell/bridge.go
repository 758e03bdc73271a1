package loadcell

import (
	"fmt"
	"sync"
	"time"

	"github.com/CK6170/cgscale-go/serial"
)

// smoothDepth is the rolling window each channel averages over. At the
// converter's 10 SPS default this stays inside one refresh interval.
const smoothDepth = 8

// minPollGap rate-limits the shared wire poll: both channels Update every
// loop pass but one frame feeds both.
const minPollGap = 5 * time.Millisecond

// bridgeCore owns the wire. Both channel ADCs share one core.
type bridgeCore struct {
	mu          sync.Mutex
	bridge      *serial.Bridge
	begun       bool
	lastPoll    time.Time
	front, rear int64
}

func (c *bridgeCore) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.begun {
		return nil
	}
	f, r, err := c.bridge.ReadCounts()
	if err != nil {
		return fmt.Errorf("prime bridge: %w", err)
	}
	c.front, c.rear = f, r
	c.lastPoll = time.Now()
	c.begun = true
	return nil
}

func (c *bridgeCore) poll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.begun {
		return fmt.Errorf("bridge not started")
	}
	if time.Since(c.lastPoll) < minPollGap {
		return nil
	}
	f, r, err := c.bridge.ReadCounts()
	if err != nil {
		return err
	}
	c.front, c.rear, c.lastPoll = f, r, time.Now()
	return nil
}

func (c *bridgeCore) counts(rear bool) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rear {
		return c.rear
	}
	return c.front
}

// NewBridgePair returns the front and rear ADC of one bridge.
func NewBridgePair(b *serial.Bridge) (front, rear *BridgeADC) {
	core := &bridgeCore{bridge: b}
	return &BridgeADC{core: core, factor: 1},
		&BridgeADC{core: core, rearChannel: true, factor: 1}
}

// BridgeADC is one channel of the serial bridge.
type BridgeADC struct {
	core        *bridgeCore
	rearChannel bool

	mu     sync.Mutex
	factor float64
	offset float64
	ring   [smoothDepth]float64
	fill   int
	idx    int
	tare   tareWindow
}

func (a *BridgeADC) Begin() error { return a.core.begin() }

func (a *BridgeADC) Update() error {
	if err := a.core.poll(); err != nil {
		return err
	}
	raw := float64(a.core.counts(a.rearChannel))
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ring[a.idx] = raw
	a.idx = (a.idx + 1) % smoothDepth
	if a.fill < smoothDepth {
		a.fill++
	}
	return nil
}

func (a *BridgeADC) StartStabilization(d time.Duration) (bool, error) {
	if err := a.Update(); err != nil {
		return false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	if !a.tare.open {
		a.tare.begin(now, d)
	}
	a.tare.add(a.smoothedLocked())
	offset, ok := a.tare.done(now)
	if !ok {
		return false, nil
	}
	a.offset = offset
	return true, nil
}

func (a *BridgeADC) SetCalFactor(factor float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if factor != 0 {
		a.factor = factor
	}
}

func (a *BridgeADC) Data() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fill == 0 {
		return 0
	}
	return (a.smoothedLocked() - a.offset) / a.factor
}

func (a *BridgeADC) smoothedLocked() float64 {
	if a.fill == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < a.fill; i++ {
		sum += a.ring[i]
	}
	return sum / float64(a.fill)
}
