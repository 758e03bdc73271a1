package scale

import "time"

// RefreshGate throttles the compute+render path to a fixed cadence.
// Sensor sampling is never gated; only the expensive pass consults it.
type RefreshGate struct {
	interval time.Duration
	next     time.Time
}

func NewRefreshGate(interval time.Duration) *RefreshGate {
	return &RefreshGate{interval: interval}
}

// Due reports whether the gate fires at now. A firing advances the
// deadline to now+interval, so a stalled loop resumes on cadence instead
// of replaying missed passes. The zero deadline fires immediately, which
// puts the first reading on screen without waiting out one interval.
func (g *RefreshGate) Due(now time.Time) bool {
	if now.Before(g.next) {
		return false
	}
	g.next = now.Add(g.interval)
	return true
}

func (g *RefreshGate) Interval() time.Duration { return g.interval }
