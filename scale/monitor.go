package scale

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MonitorConfig carries the loop timings plus the two callbacks the
// front ends hook into. OnRefresh runs once per gate firing with the
// fresh reading; OnSync reports channel transitions during a tare.
type MonitorConfig struct {
	Stabilize time.Duration // tare window
	Timeout   time.Duration // stabilization limit; 0 waits forever
	Refresh   time.Duration // compute/render cadence
	Poll      time.Duration // sleep between sensor polls

	OnRefresh func(r Reading, stable bool) error
	OnSync    func(SyncEvent)
}

// Snapshot is a read-side copy of the loop state for observers (HTTP
// server, TUI). The loop is the only writer.
type Snapshot struct {
	FrontState ChannelState `json:"frontState"`
	RearState  ChannelState `json:"rearState"`
	FrontGrams float64      `json:"frontGrams"`
	RearGrams  float64      `json:"rearGrams"`
	Reading    Reading      `json:"reading"`
	Stable     bool         `json:"stable"`
	Taring     bool         `json:"taring"`
	LastError  string       `json:"lastError,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Monitor owns the control loop: tare both channels, then sample them on
// every pass and run the compute+render path whenever the refresh gate
// fires. All channel and gate state is touched only by Run's goroutine;
// observers get copies through Snapshot.
type Monitor struct {
	front, rear *Channel
	engine      *Engine
	gate        *RefreshGate
	cfg         MonitorConfig
	stab        stabilityTracker

	tareCh chan struct{}

	mu   sync.RWMutex
	snap Snapshot
}

func NewMonitor(front, rear *Channel, engine *Engine, cfg MonitorConfig) *Monitor {
	if cfg.Refresh <= 0 {
		cfg.Refresh = 500 * time.Millisecond
	}
	if cfg.Poll <= 0 {
		cfg.Poll = 2 * time.Millisecond
	}
	return &Monitor{
		front:  front,
		rear:   rear,
		engine: engine,
		gate:   NewRefreshGate(cfg.Refresh),
		cfg:    cfg,
		tareCh: make(chan struct{}, 1),
	}
}

// Snapshot returns a copy of the latest published state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// RequestTare queues a re-zero; the loop drains it between passes and
// reruns the full bring-up. Safe from any goroutine, coalesces repeats.
func (m *Monitor) RequestTare() {
	select {
	case m.tareCh <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled, a channel stabilization times out,
// or a render fails. Sample errors are transient: they land in the
// snapshot and the loop keeps polling.
func (m *Monitor) Run(ctx context.Context) error {
	if err := m.tare(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.tareCh:
			if err := m.tare(ctx); err != nil {
				return err
			}
		default:
		}

		// Sampling runs on every pass, never gated: skipping polls
		// silently drops converter frames.
		sampleErr := m.front.Sample()
		if err := m.rear.Sample(); err != nil && sampleErr == nil {
			sampleErr = err
		}

		if m.gate.Due(time.Now()) {
			r := m.engine.Compute(m.front.LatestWeight(), m.rear.LatestWeight())
			m.stab.add(r.Total)
			stable := m.stab.stable()
			m.publish(r, stable, sampleErr)
			if m.cfg.OnRefresh != nil {
				if err := m.cfg.OnRefresh(r, stable); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
		}
		time.Sleep(m.cfg.Poll)
	}
}

// tare resets both channels and reruns the synchronizer.
func (m *Monitor) tare(ctx context.Context) error {
	m.front.Reset()
	m.rear.Reset()
	m.stab.reset()
	m.setTaring(true)

	syn := &Synchronizer{
		Front:   m.front,
		Rear:    m.rear,
		Window:  m.cfg.Stabilize,
		Poll:    m.cfg.Poll,
		Timeout: m.cfg.Timeout,
		OnEvent: func(ev SyncEvent) {
			m.setStates()
			if m.cfg.OnSync != nil {
				m.cfg.OnSync(ev)
			}
		},
	}
	err := syn.Run(ctx)
	m.setTaring(false)
	if err != nil {
		return fmt.Errorf("tare: %w", err)
	}
	return nil
}

func (m *Monitor) publish(r Reading, stable bool, sampleErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.FrontState = m.front.State()
	m.snap.RearState = m.rear.State()
	m.snap.FrontGrams = m.front.LatestWeight()
	m.snap.RearGrams = m.rear.LatestWeight()
	m.snap.Reading = r
	m.snap.Stable = stable
	m.snap.LastError = ""
	if sampleErr != nil {
		m.snap.LastError = sampleErr.Error()
	}
	m.snap.UpdatedAt = time.Now()
}

func (m *Monitor) setTaring(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.Taring = on
	m.snap.FrontState = m.front.State()
	m.snap.RearState = m.rear.State()
	m.snap.UpdatedAt = time.Now()
}

func (m *Monitor) setStates() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.FrontState = m.front.State()
	m.snap.RearState = m.rear.State()
	m.snap.UpdatedAt = time.Now()
}
