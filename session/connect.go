package session

import (
	"fmt"
	"time"

	"github.com/CK6170/cgscale-go/loadcell"
	"github.com/CK6170/cgscale-go/models"
	"github.com/CK6170/cgscale-go/scale"
	serialpkg "github.com/CK6170/cgscale-go/serial"
)

// Session bundles a loaded config with the two converter channels it
// drives, either through the real bridge or the simulator.
type Session struct {
	Config *models.CONFIG
	Bridge *serialpkg.Bridge // nil in sim mode
	Front  loadcell.ADC
	Rear   loadcell.ADC

	frontSim, rearSim *loadcell.SimADC
}

// Connect opens the configured bridge and probes it before handing the
// two channel ADCs out.
func Connect(c *models.CONFIG) (*Session, error) {
	if c == nil || c.SERIAL == nil {
		return nil, fmt.Errorf("missing SERIAL section")
	}
	bridge, err := serialpkg.Open(c.SERIAL)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := bridge.GetVersion(); err != nil {
		_ = bridge.Close()
		return nil, fmt.Errorf("bridge version probe on %s: %w", c.SERIAL.PORT, err)
	}
	front, rear := loadcell.NewBridgePair(bridge)
	return &Session{Config: c, Bridge: bridge, Front: front, Rear: rear}, nil
}

// ConnectSim builds a hardware-free session around two simulated cells.
// A small wobble keeps live views moving.
func ConnectSim(c *models.CONFIG) *Session {
	front := loadcell.NewSimADC()
	rear := loadcell.NewSimADC()
	front.CountsPerGram = c.FRONT.FACTOR
	rear.CountsPerGram = c.REAR.FACTOR
	front.Wobble = 0.03
	rear.Wobble = 0.03
	return &Session{Config: c, Front: front, Rear: rear, frontSim: front, rearSim: rear}
}

// Simulated returns the two simulator cells, or nil outside sim mode.
func (s *Session) Simulated() (front, rear *loadcell.SimADC) {
	return s.frontSim, s.rearSim
}

func (s *Session) Close() error {
	if s == nil || s.Bridge == nil {
		return nil
	}
	return s.Bridge.Close()
}

// NewMonitor wires the session's channels, geometry and timings into a
// control loop. The callbacks are optional.
func (s *Session) NewMonitor(onRefresh func(scale.Reading, bool) error, onSync func(scale.SyncEvent)) (*scale.Monitor, error) {
	c := s.Config
	engine, err := scale.NewEngine(scale.Geometry{
		WingPegDistance: c.GEOMETRY.WINGPEG,
		StopperDistance: c.GEOMETRY.STOPPER,
	})
	if err != nil {
		return nil, err
	}
	front := scale.NewChannel("front", s.Front, c.FRONT.FACTOR)
	rear := scale.NewChannel("rear", s.Rear, c.REAR.FACTOR)
	return scale.NewMonitor(front, rear, engine, scale.MonitorConfig{
		Stabilize: time.Duration(c.STABILIZE) * time.Millisecond,
		Timeout:   time.Duration(c.TIMEOUT) * time.Millisecond,
		Refresh:   time.Duration(c.REFRESH) * time.Millisecond,
		Poll:      time.Duration(c.POLL) * time.Millisecond,
		OnRefresh: onRefresh,
		OnSync:    onSync,
	}), nil
}
