// Package app composes the gesture engine, conversational driver, frame
// budget manager, and sync server into a single per-frame orchestration loop.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexgesture/internal/budget"
	"github.com/normanking/cortexgesture/internal/bus"
	"github.com/normanking/cortexgesture/internal/config"
	"github.com/normanking/cortexgesture/internal/driver"
	"github.com/normanking/cortexgesture/internal/gesture"
	"github.com/normanking/cortexgesture/internal/logging"
	gesturesync "github.com/normanking/cortexgesture/internal/sync"
)

// App owns the frame loop and all engine components.
type App struct {
	logger zerolog.Logger
	events *bus.EventBus

	engine  *gesture.Engine
	drv     *driver.Driver
	budget  *budget.Manager
	sched   *budget.Scheduler
	syncSrv *gesturesync.Server

	targetFPS int
}

// New wires the components together from configuration.
func New(cfg *config.Config, log *logging.Logger) *App {
	events := bus.NewEventBus()

	engine := gesture.NewEngine(log.Z())
	engine.SetAllowInterrupt(cfg.Engine.AllowInterrupt)
	engine.SetGestureHandlers(
		func(t gesture.Type) {
			events.Publish(bus.Event{
				Type: bus.EventTypeGestureStarted,
				Data: map[string]any{"gesture": string(t)},
			})
		},
		func(t gesture.Type) {
			events.Publish(bus.Event{
				Type: bus.EventTypeGestureEnded,
				Data: map[string]any{"gesture": string(t)},
			})
		},
	)

	drv := driver.New(engine, driver.Config{
		EnabledGestures:  cfg.Driver.EnabledGestureTypes(),
		GestureFrequency: cfg.Driver.GestureFrequency,
	}, log.Z())

	mgr := budget.NewManager(cfg.Budget, log.Z())
	mgr.SetHandlers(
		func(usedMs, budgetMs float64) {
			events.Publish(bus.Event{
				Type: bus.EventTypeBudgetExceeded,
				Data: map[string]any{"used_ms": usedMs, "budget_ms": budgetMs},
			})
		},
		func(factor float64) {
			events.Publish(bus.Event{
				Type: bus.EventTypeQualityAdjusted,
				Data: map[string]any{"factor": factor},
			})
		},
	)

	a := &App{
		logger:    log.Component("app"),
		events:    events,
		engine:    engine,
		drv:       drv,
		budget:    mgr,
		sched:     budget.NewScheduler(),
		targetFPS: cfg.Budget.TargetFPS,
	}
	if a.targetFPS <= 0 {
		a.targetFPS = 60
	}

	if cfg.Sync.Enabled {
		a.syncSrv = gesturesync.NewServer(cfg.Sync.ListenAddr, engine, drv, events, log.Z())
	}

	return a
}

// Engine exposes the gesture engine for embedding callers.
func (a *App) Engine() *gesture.Engine { return a.engine }

// Driver exposes the conversational driver.
func (a *App) Driver() *driver.Driver { return a.drv }

// Budget exposes the frame budget manager.
func (a *App) Budget() *budget.Manager { return a.budget }

// Scheduler exposes the deferred work scheduler. Work scheduled here runs
// inside the frame loop, gated by the remaining frame budget.
func (a *App) Scheduler() *budget.Scheduler { return a.sched }

// ApplyConfig applies a reloaded configuration to the live components.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.engine.SetAllowInterrupt(cfg.Engine.AllowInterrupt)
	a.drv.SetEnabledGestures(cfg.Driver.EnabledGestureTypes())
	a.drv.SetFrequency(cfg.Driver.GestureFrequency)
	a.logger.Info().Msg("Applied reloaded configuration")
}

// Run drives the frame loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.syncSrv != nil {
		if err := a.syncSrv.Start(); err != nil {
			return err
		}
	}

	frame := time.Second / time.Duration(a.targetFPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	statsTimer := time.Now()
	frames := 0

	a.logger.Info().Int("target_fps", a.targetFPS).Msg("Frame loop started")

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("Frame loop stopped")
			return a.shutdown()
		case <-ticker.C:
			a.stepFrame(time.Now())

			frames++
			if time.Since(statsTimer) >= time.Second {
				metrics := a.budget.GetMetrics()
				a.logger.Debug().
					Int("fps", frames).
					Float64("avg_frame_ms", a.budget.AverageFrameTime()).
					Float64("peak_frame_ms", metrics.PeakFrameTime).
					Int("overflows", metrics.OverflowCount).
					Msg("Frame stats")
				frames = 0
				statsTimer = time.Now()
			}
		}
	}
}

// stepFrame runs one cooperative frame: driver, engine tick, then as much
// deferred work as the remaining budget allows.
func (a *App) stepFrame(now time.Time) {
	a.budget.StartWork("animation")
	a.drv.Update(now)
	a.engine.Tick(now)
	a.budget.EndWork("animation")

	for a.sched.PendingCount() > 0 {
		item := a.sched.ExecuteNext()
		if item == nil {
			break
		}
		if !a.budget.CanFitWork(item.EstimatedMs) {
			// Put it back; it keeps its id and runs in a later frame.
			a.sched.ScheduleWork(item.ID, item.Run, item.EstimatedMs)
			break
		}
		a.budget.StartWork(item.ID)
		item.Run()
		a.budget.EndWork(item.ID)
	}

	a.budget.RecordFrameComplete()

	a.events.Publish(bus.Event{
		Type: bus.EventTypeFrameSnapshot,
		Data: map[string]any{"snapshot": a.engine.Snapshot()},
	})
}

func (a *App) shutdown() error {
	a.engine.Stop()
	if a.syncSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return a.syncSrv.Shutdown(ctx)
	}
	return nil
}
