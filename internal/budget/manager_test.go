package budget

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestManager(cfg Config) (*Manager, *fakeClock) {
	m := NewManager(cfg, zerolog.Nop())
	clk := &fakeClock{t: time.Unix(1000, 0)}
	m.now = clk.Now
	return m, clk
}

func TestBudgetFromTargetFPS(t *testing.T) {
	m, _ := newTestManager(Config{})
	assert.InDelta(t, 16.67, m.BudgetMs(), 0.01)

	m30, _ := newTestManager(Config{TargetFPS: 30})
	assert.InDelta(t, 33.33, m30.BudgetMs(), 0.01)

	half, _ := newTestManager(Config{TargetFPS: 60, BudgetAllocation: 0.5})
	assert.InDelta(t, 8.33, half.BudgetMs(), 0.01)
}

func TestWorkSpanChargesBudget(t *testing.T) {
	m, clk := newTestManager(Config{})

	m.StartWork("render")
	clk.Advance(5 * time.Millisecond)
	m.EndWork("render")

	assert.InDelta(t, 5, m.UsedMs(), 0.01)
	assert.False(t, m.IsOverBudget())
	assert.InDelta(t, 11.67, m.RemainingBudget(), 0.01)
	assert.True(t, m.CanFitWork(10))
	assert.False(t, m.CanFitWork(12))
}

func TestOverflowDetection(t *testing.T) {
	m, clk := newTestManager(Config{})

	var calls int
	var gotUsed, gotBudget float64
	m.SetHandlers(func(usedMs, budgetMs float64) {
		calls++
		gotUsed, gotBudget = usedMs, budgetMs
	}, nil)

	m.StartWork("heavy")
	clk.Advance(20 * time.Millisecond)
	m.EndWork("heavy")

	assert.True(t, m.IsOverBudget())
	assert.Equal(t, float64(0), m.RemainingBudget())
	assert.False(t, m.CanFitWork(0.1))
	require.Equal(t, 1, calls)
	assert.InDelta(t, 20, gotUsed, 0.01)
	assert.InDelta(t, 16.67, gotBudget, 0.01)

	// Further spans in the same frame must not re-fire the callback.
	m.StartWork("more")
	clk.Advance(5 * time.Millisecond)
	m.EndWork("more")
	assert.Equal(t, 1, calls)

	// A fresh frame fires again on its own transition.
	m.ResetFrame()
	m.StartWork("heavy")
	clk.Advance(25 * time.Millisecond)
	m.EndWork("heavy")
	assert.Equal(t, 2, calls)
}

func TestEndWorkWithoutStartIsNoOp(t *testing.T) {
	m, _ := newTestManager(Config{})

	m.EndWork("never_started")

	assert.Equal(t, float64(0), m.UsedMs())
}

func TestStartWorkOverwritesPriorStart(t *testing.T) {
	m, clk := newTestManager(Config{})

	m.StartWork("work")
	clk.Advance(10 * time.Millisecond)
	m.StartWork("work") // restart: earlier start is discarded
	clk.Advance(2 * time.Millisecond)
	m.EndWork("work")

	assert.InDelta(t, 2, m.UsedMs(), 0.01)
}

func TestResetFrameDiscardsOpenSpans(t *testing.T) {
	m, clk := newTestManager(Config{})

	m.StartWork("dangling")
	m.ResetFrame()
	clk.Advance(50 * time.Millisecond)
	m.EndWork("dangling")

	assert.Equal(t, float64(0), m.UsedMs())
	assert.False(t, m.IsOverBudget())
}

func TestQualitySuggestion(t *testing.T) {
	m, clk := newTestManager(Config{})

	s := m.QualitySuggestion()
	assert.False(t, s.ShouldReduce)
	assert.Equal(t, float64(1), s.Factor)

	m.StartWork("heavy")
	clk.Advance(20 * time.Millisecond)
	m.EndWork("heavy")

	s = m.QualitySuggestion()
	assert.True(t, s.ShouldReduce)
	assert.InDelta(t, 16.67/20.0, s.Factor, 0.01)
	assert.Contains(t, s.Reason, "%")
}

func TestQualityFactorFloor(t *testing.T) {
	m, clk := newTestManager(Config{MinQualityFactor: 0.3})

	m.StartWork("huge")
	clk.Advance(200 * time.Millisecond)
	m.EndWork("huge")

	s := m.QualitySuggestion()
	assert.Equal(t, 0.3, s.Factor)
	assert.GreaterOrEqual(t, s.Factor, 0.3)
	assert.LessOrEqual(t, s.Factor, 1.0)
}

func TestRecordFrameComplete(t *testing.T) {
	m, clk := newTestManager(Config{})

	var adjusted []float64
	m.SetHandlers(nil, func(factor float64) { adjusted = append(adjusted, factor) })

	// Frame 1: within budget.
	m.StartWork("a")
	clk.Advance(10 * time.Millisecond)
	m.EndWork("a")
	m.RecordFrameComplete()

	// Frame 2: overflowed.
	m.StartWork("a")
	clk.Advance(25 * time.Millisecond)
	m.EndWork("a")
	m.RecordFrameComplete()

	metrics := m.GetMetrics()
	assert.Equal(t, 2, metrics.FramesRecorded)
	assert.Equal(t, 1, metrics.OverflowCount)
	assert.InDelta(t, 35, metrics.TotalFrameTime, 0.1)
	assert.InDelta(t, 25, metrics.PeakFrameTime, 0.1)
	assert.InDelta(t, 17.5, m.AverageFrameTime(), 0.1)

	require.Len(t, adjusted, 1)
	assert.InDelta(t, 16.67/25.0, adjusted[0], 0.01)
	assert.InDelta(t, 16.67/25.0, m.QualityFactor(), 0.01)

	// The frame accumulator always starts clean afterwards.
	assert.Equal(t, float64(0), m.UsedMs())
	assert.False(t, m.IsOverBudget())
}

func TestResetMetrics(t *testing.T) {
	m, clk := newTestManager(Config{})

	m.StartWork("a")
	clk.Advance(30 * time.Millisecond)
	m.EndWork("a")
	m.RecordFrameComplete()
	require.NotEqual(t, float64(1), m.QualityFactor())

	m.ResetMetrics()

	metrics := m.GetMetrics()
	assert.Equal(t, 0, metrics.FramesRecorded)
	assert.Equal(t, 0, metrics.OverflowCount)
	assert.Equal(t, float64(0), metrics.TotalFrameTime)
	assert.Equal(t, float64(0), metrics.PeakFrameTime)
	assert.Equal(t, float64(1), m.QualityFactor())
	assert.Equal(t, float64(0), m.AverageFrameTime())
}
