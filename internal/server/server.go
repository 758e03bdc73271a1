// Package server is the live-bench daemon: a small HTTP+websocket
// surface over one connected scale session, with an in-memory recording
// store and an xlsx export.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/CK6170/cgscale-go/render"
	"github.com/CK6170/cgscale-go/scale"
)

type Server struct {
	mux *http.ServeMux

	store *RecordStore
	live  *liveSession
	hub   *WSHub
}

func New() *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		store: NewRecordStore(),
		live:  &liveSession{},
		hub:   NewWSHub(),
	}

	// API
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/connect", s.handleConnect)
	s.mux.HandleFunc("/api/disconnect", s.handleDisconnect)
	s.mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	s.mux.HandleFunc("/api/tare", s.handleTare)
	s.mux.HandleFunc("/api/record", s.handleRecord)
	s.mux.HandleFunc("/api/records", s.handleRecords)
	s.mux.HandleFunc("/api/records/", s.handleRecordByID)
	s.mux.HandleFunc("/api/export", s.handleExport)

	// WS
	s.mux.HandleFunc("/ws/live", s.handleWSLive)

	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Close tears down the active session, if any.
func (s *Server) Close() { s.disconnect() }

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, 2<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, 200, HealthResponse{OK: true, Timestamp: time.Now()})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ConnectRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.ConfigPath) == "" {
		s.writeJSON(w, 400, APIError{Error: "missing configPath"})
		return
	}
	resp, err := s.connect(req)
	if err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	s.writeJSON(w, 200, resp)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	s.disconnect()
	s.writeJSON(w, 200, map[string]bool{"ok": true})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	mon, sim := s.monitor()
	s.writeJSON(w, 200, s.snapshotResponse(mon, sim))
}

func (s *Server) snapshotResponse(mon *scale.Monitor, sim bool) SnapshotResponse {
	if mon == nil {
		return SnapshotResponse{}
	}
	snap := mon.Snapshot()
	return SnapshotResponse{
		Connected:  true,
		Sim:        sim,
		Snapshot:   &snap,
		WeightText: render.WeightLine(snap.Reading.Total),
		CGText:     render.CGLine(snap.Reading.CG),
	}
}

func (s *Server) handleTare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	mon, _ := s.monitor()
	if mon == nil {
		s.writeJSON(w, 400, APIError{Error: "not connected"})
		return
	}
	mon.RequestTare()
	s.writeJSON(w, 200, map[string]bool{"ok": true})
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req RecordRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	mon, _ := s.monitor()
	if mon == nil {
		s.writeJSON(w, 400, APIError{Error: "not connected"})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "untitled"
	}
	rec, err := s.store.Put(recordFromSnapshot(name, mon.Snapshot()))
	if err != nil {
		s.writeJSON(w, 500, APIError{Error: err.Error()})
		return
	}
	s.writeJSON(w, 200, rec)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, 200, s.store.List())
}

func (s *Server) handleRecordByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if id == "" || strings.Contains(id, "/") {
		s.writeJSON(w, 400, APIError{Error: "missing record id"})
		return
	}
	if !s.store.Delete(id) {
		s.writeJSON(w, 404, APIError{Error: "not found"})
		return
	}
	s.writeJSON(w, 200, map[string]bool{"ok": true})
}
