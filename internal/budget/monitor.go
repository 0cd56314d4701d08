package budget

import (
	"sync"
	"time"
)

// Monitor is a simplified standalone tracker. Unlike Manager it does not
// reset per frame: tracked time accumulates across sessions until Reset.
type Monitor struct {
	mu  sync.Mutex
	now func() time.Time

	tracking bool
	startAt  time.Time
	usedMs   float64
}

// NewMonitor creates an idle monitor.
func NewMonitor() *Monitor {
	return &Monitor{now: time.Now}
}

// StartTracking begins a tracking session. A second call restarts the
// current session.
func (m *Monitor) StartTracking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking = true
	m.startAt = m.now()
}

// StopTracking ends the current session and accumulates its elapsed time.
// A no-op when not tracking.
func (m *Monitor) StopTracking() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tracking {
		return
	}
	m.tracking = false
	m.usedMs += m.now().Sub(m.startAt).Seconds() * 1000
}

// UsedMs returns the accumulated tracked time in ms.
func (m *Monitor) UsedMs() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedMs
}

// IsTracking reports whether a session is open.
func (m *Monitor) IsTracking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracking
}

// Reset zeroes the accumulated total and abandons any open session.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking = false
	m.usedMs = 0
}
