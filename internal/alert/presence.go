package alert

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// HeartbeatTracker implements Presence from client heartbeats: a client that
// pinged within the TTL is considered to be foregrounding the dashboard.
type HeartbeatTracker struct {
	mu       sync.Mutex
	lastBeat time.Time
	ttl      time.Duration
	clock    clockwork.Clock
}

// NewHeartbeatTracker constructs a tracker. A nil clock uses real time.
func NewHeartbeatTracker(ttl time.Duration, clock clockwork.Clock) *HeartbeatTracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &HeartbeatTracker{ttl: ttl, clock: clock}
}

// Beat records a client heartbeat.
func (h *HeartbeatTracker) Beat() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastBeat = h.clock.Now()
}

// Active reports whether a heartbeat arrived within the TTL.
func (h *HeartbeatTracker) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.lastBeat.IsZero() {
		return false
	}
	return h.clock.Now().Sub(h.lastBeat) <= h.ttl
}
