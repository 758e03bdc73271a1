package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/CK6170/cgscale-go/scale"
)

// Record is one captured measurement: a named snapshot of the bench at
// the moment the operator pressed record.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	At         time.Time `json:"at"`
	FrontGrams float64   `json:"frontGrams"`
	RearGrams  float64   `json:"rearGrams"`
	TotalGrams float64   `json:"totalGrams"`
	CGMm       float64   `json:"cgMm"`
	CGKnown    bool      `json:"cgKnown"`
	Stable     bool      `json:"stable"`
}

func recordFromSnapshot(name string, s scale.Snapshot) Record {
	return Record{
		Name:       name,
		At:         time.Now(),
		FrontGrams: s.Reading.Front.Grams(),
		RearGrams:  s.Reading.Rear.Grams(),
		TotalGrams: s.Reading.Total.Grams(),
		CGMm:       s.Reading.CG.Millimeters(),
		CGKnown:    s.Reading.CGKnown(),
		Stable:     s.Stable,
	}
}

// RecordStore keeps recordings in memory for the lifetime of the
// daemon. A bench session does not outlive the process.
type RecordStore struct {
	mu sync.RWMutex
	m  map[string]Record
}

func NewRecordStore() *RecordStore {
	return &RecordStore{m: make(map[string]Record)}
}

func (s *RecordStore) Put(rec Record) (Record, error) {
	id, err := newID()
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	s.mu.Lock()
	s.m[id] = rec
	s.mu.Unlock()
	return rec, nil
}

// List returns all recordings, oldest first.
func (s *RecordStore) List() []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.m))
	for _, r := range s.m {
		out = append(out, r)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func (s *RecordStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; !ok {
		return false
	}
	delete(s.m, id)
	return true
}

func newID() (string, error) {
	var b [12]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
