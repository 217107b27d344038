// ABOUTME: Echo-suppression gate guarding the snapshot subscription.
// ABOUTME: Held across remote writes, cleared after a trailing grace window.

package sync

import (
	"sync"
	"time"
)

// DefaultGrace is the trailing window kept after a remote write completes.
// The remote fan-out is asynchronous and can arrive after the write call
// itself resolves, so clearing immediately on completion is not enough.
const DefaultGrace = 2 * time.Second

// Gate suppresses the snapshot subscription while a locally originated
// remote write is in flight, and for a grace window after it completes.
// This is a timing heuristic, not a causal guarantee: see the design notes
// on version counters.
//
// Holds nest: the gate clears only after the last Release, plus the grace
// window.
type Gate struct {
	mu         sync.Mutex
	grace      time.Duration
	holds      int
	suppressed bool
	timer      *time.Timer
}

// NewGate creates a gate with the given grace window. Zero or negative
// falls back to DefaultGrace.
func NewGate(grace time.Duration) *Gate {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Gate{grace: grace}
}

// Hold engages the gate. Call before initiating a remote write.
func (g *Gate) Hold() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.holds++
	g.suppressed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// Release marks one remote write as complete. When the last hold is
// released, the gate stays suppressed for the grace window and then
// clears.
func (g *Gate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.holds > 0 {
		g.holds--
	}
	if g.holds > 0 {
		return
	}

	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.grace, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.holds == 0 {
			g.suppressed = false
			g.timer = nil
		}
	})
}

// Suppressed reports whether inbound snapshots should be ignored.
func (g *Gate) Suppressed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suppressed
}
