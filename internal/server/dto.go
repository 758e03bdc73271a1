package server

import (
	"time"

	"github.com/CK6170/cgscale-go/scale"
)

type APIError struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK        bool      `json:"ok"`
	Timestamp time.Time `json:"timestamp"`
}

type ConnectRequest struct {
	ConfigPath string `json:"configPath"`
	Sim        bool   `json:"sim"`
}

type ConnectResponse struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port,omitempty"`
	Sim       bool   `json:"sim"`
	Output    string `json:"output"`
}

// SnapshotResponse pairs the raw loop snapshot with the same text the
// display sink would show, so a thin client needs no formatting logic.
type SnapshotResponse struct {
	Connected  bool            `json:"connected"`
	Sim        bool            `json:"sim,omitempty"`
	Snapshot   *scale.Snapshot `json:"snapshot,omitempty"`
	WeightText string          `json:"weightText,omitempty"`
	CGText     string          `json:"cgText,omitempty"`
}

type RecordRequest struct {
	Name string `json:"name"`
}
