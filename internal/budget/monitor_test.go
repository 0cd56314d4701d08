package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestMonitor() (*Monitor, *fakeClock) {
	m := NewMonitor()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	m.now = clk.Now
	return m, clk
}

func TestMonitorAccumulatesAcrossSessions(t *testing.T) {
	m, clk := newTestMonitor()

	m.StartTracking()
	clk.Advance(10 * time.Millisecond)
	m.StopTracking()

	m.StartTracking()
	clk.Advance(7 * time.Millisecond)
	m.StopTracking()

	// Unlike the frame manager, the total persists across sessions.
	assert.InDelta(t, 17, m.UsedMs(), 0.01)
}

func TestMonitorStopWithoutStartIsNoOp(t *testing.T) {
	m, clk := newTestMonitor()

	m.StopTracking()
	clk.Advance(10 * time.Millisecond)
	m.StopTracking()

	assert.Equal(t, float64(0), m.UsedMs())
	assert.False(t, m.IsTracking())
}

func TestMonitorReset(t *testing.T) {
	m, clk := newTestMonitor()

	m.StartTracking()
	clk.Advance(10 * time.Millisecond)
	m.StopTracking()

	m.StartTracking()
	m.Reset()

	assert.Equal(t, float64(0), m.UsedMs())
	assert.False(t, m.IsTracking())

	// A stop after reset must not charge the abandoned session.
	clk.Advance(10 * time.Millisecond)
	m.StopTracking()
	assert.Equal(t, float64(0), m.UsedMs())
}
