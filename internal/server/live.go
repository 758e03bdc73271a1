package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/CK6170/cgscale-go/scale"
	"github.com/CK6170/cgscale-go/session"
)

// broadcastEvery is the cadence of snapshot frames on the live socket,
// independent of the monitor's own refresh interval.
const broadcastEvery = 250 * time.Millisecond

// liveSession owns at most one connected bench: the serial session and
// the monitor goroutine driving it. Connect replaces any previous
// session; disconnect cancels the loop and closes the port.
type liveSession struct {
	mu     sync.Mutex
	sess   *session.Session
	mon    *scale.Monitor
	cancel context.CancelFunc
	done   chan struct{}
	sim    bool
}

func (s *Server) connect(req ConnectRequest) (ConnectResponse, error) {
	cfg, err := session.LoadConfig(req.ConfigPath)
	if err != nil {
		return ConnectResponse{}, fmt.Errorf("load config: %w", err)
	}

	s.live.mu.Lock()
	defer s.live.mu.Unlock()
	s.disconnectLocked()

	var sess *session.Session
	if req.Sim {
		sess = session.ConnectSim(cfg)
	} else {
		if _, err := session.EnsureSerialPort(req.ConfigPath, cfg, false); err != nil {
			return ConnectResponse{}, err
		}
		sess, err = session.Connect(cfg)
		if err != nil {
			return ConnectResponse{}, err
		}
	}

	mon, err := sess.NewMonitor(nil, func(ev scale.SyncEvent) {
		s.hub.Broadcast(WSMessage{Type: "state", Data: ev})
	})
	if err != nil {
		_ = sess.Close()
		return ConnectResponse{}, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := mon.Run(ctx); err != nil && ctx.Err() == nil {
			s.hub.Broadcast(WSMessage{Type: "error", Data: map[string]string{"error": err.Error()}})
		}
	}()
	go s.broadcastLoop(ctx, mon, req.Sim)

	s.live.sess = sess
	s.live.mon = mon
	s.live.cancel = cancel
	s.live.done = done
	s.live.sim = req.Sim

	return ConnectResponse{
		Connected: true,
		Port:      cfg.SERIAL.PORT,
		Sim:       req.Sim,
		Output:    cfg.OUTPUT,
	}, nil
}

// Connect attaches a bench session at daemon startup, same as POST
// /api/connect.
func (s *Server) Connect(configPath string, sim bool) error {
	_, err := s.connect(ConnectRequest{ConfigPath: configPath, Sim: sim})
	return err
}

func (s *Server) disconnect() {
	s.live.mu.Lock()
	defer s.live.mu.Unlock()
	s.disconnectLocked()
}

func (s *Server) disconnectLocked() {
	if s.live.cancel != nil {
		s.live.cancel()
		s.live.cancel = nil
	}
	if s.live.done != nil {
		select {
		case <-s.live.done:
		case <-time.After(2 * time.Second):
		}
		s.live.done = nil
	}
	if s.live.sess != nil {
		_ = s.live.sess.Close()
		s.live.sess = nil
	}
	s.live.mon = nil
	s.live.sim = false
}

// monitor returns the active monitor, or nil when disconnected.
func (s *Server) monitor() (*scale.Monitor, bool) {
	s.live.mu.Lock()
	defer s.live.mu.Unlock()
	return s.live.mon, s.live.sim
}

func (s *Server) broadcastLoop(ctx context.Context, mon *scale.Monitor, sim bool) {
	t := time.NewTicker(broadcastEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.hub.Broadcast(WSMessage{Type: "stopped"})
			return
		case <-t.C:
			s.hub.Broadcast(WSMessage{Type: "snapshot", Data: s.snapshotResponse(mon, sim)})
		}
	}
}
