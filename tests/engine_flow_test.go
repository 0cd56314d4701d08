package tests

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexgesture/internal/app"
	"github.com/normanking/cortexgesture/internal/budget"
	"github.com/normanking/cortexgesture/internal/config"
	"github.com/normanking/cortexgesture/internal/gesture"
	"github.com/normanking/cortexgesture/internal/logging"
)

// tickUntil drives the engine with wall-clock ticks until cond holds or the
// deadline passes.
func tickUntil(e *gesture.Engine, timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.Tick(time.Now())
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestGesturePlaysToCompletion(t *testing.T) {
	e := gesture.NewEngine(zerolog.Nop())

	e.Play(gesture.Acknowledge, nil) // 400ms
	require.True(t, e.IsPlaying())

	ok := tickUntil(e, 2*time.Second, func() bool { return !e.IsPlaying() })
	require.True(t, ok, "acknowledge should complete within the deadline")

	assert.Equal(t, gesture.Type(""), e.CurrentGesture())
	assert.Equal(t, float32(1), e.Progress())
	assert.Equal(t, gesture.IdentityTransform(), e.Transform())
}

func TestQueuedGestureStartsWithoutExternalCall(t *testing.T) {
	e := gesture.NewEngine(zerolog.Nop())

	e.Play(gesture.Acknowledge, nil)
	e.Queue(gesture.Nod, nil)
	require.Equal(t, 1, e.QueueLength())

	ok := tickUntil(e, 2*time.Second, func() bool { return e.CurrentGesture() == gesture.Nod })
	require.True(t, ok, "nod should start after acknowledge completes")
	assert.Equal(t, 0, e.QueueLength())
}

func TestBudgetManagerWithRealWork(t *testing.T) {
	m := budget.NewManager(budget.Config{}, zerolog.Nop())

	m.StartWork("simulated_render")
	time.Sleep(25 * time.Millisecond)
	m.EndWork("simulated_render")

	assert.True(t, m.IsOverBudget())
	assert.Equal(t, float64(0), m.RemainingBudget())

	s := m.QualitySuggestion()
	assert.True(t, s.ShouldReduce)
	assert.GreaterOrEqual(t, s.Factor, 0.3)
	assert.LessOrEqual(t, s.Factor, 1.0)

	m.RecordFrameComplete()
	assert.Equal(t, float64(0), m.UsedMs())
	assert.False(t, m.IsOverBudget())
	assert.Equal(t, 1, m.GetMetrics().OverflowCount)
}

func TestAppFrameLoopRunsScheduledWork(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Dir = t.TempDir()
	cfg.Log.Console = false
	cfg.Sync.Enabled = false

	logger, err := logging.New(&logging.Config{
		LogDir:  cfg.Log.Dir,
		Level:   logging.LevelError,
		Console: false,
	})
	require.NoError(t, err)
	defer logger.Close()

	a := app.New(cfg, logger)

	var ran atomic.Bool
	a.Scheduler().ScheduleWork("warmup", func() { ran.Store(true) }, 0.1)
	a.Engine().Play(gesture.Acknowledge, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()
	require.NoError(t, a.Run(ctx))

	assert.True(t, ran.Load(), "scheduled work should run inside the frame loop")
	assert.False(t, a.Engine().IsPlaying(), "acknowledge should complete during the loop")
	assert.Greater(t, a.Budget().GetMetrics().FramesRecorded, 0)
}
