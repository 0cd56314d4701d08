// Package budget tracks per-frame wall-clock cost against a target refresh
// rate, detects overruns, and suggests adaptive quality reductions.
package budget

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config sets the frame budget parameters. Zero values fall back to the
// defaults (60 fps, full frame allocation, 0.3 quality floor).
type Config struct {
	TargetFPS        int     `mapstructure:"target_fps"`
	BudgetAllocation float64 `mapstructure:"budget_allocation"`
	MinQualityFactor float64 `mapstructure:"min_quality_factor"`
}

// QualitySuggestion recommends a fidelity multiplier once the frame budget
// is exceeded.
type QualitySuggestion struct {
	ShouldReduce bool
	Factor       float64
	Reason       string
}

// Metrics accumulate across frames until ResetMetrics.
type Metrics struct {
	FramesRecorded int
	OverflowCount  int
	TotalFrameTime float64
	PeakFrameTime  float64
}

// Manager accounts wall-clock work spans within the current frame. Costs are
// a flat running sum: overlapping work ids double-count relative to true
// frame cost, so callers should use disjoint ids for sequential work.
type Manager struct {
	mu     sync.Mutex
	logger zerolog.Logger
	now    func() time.Time

	budgetMs         float64
	minQualityFactor float64

	usedMs     float64
	overBudget bool
	openWork   map[string]time.Time

	metrics       Metrics
	qualityFactor float64

	onBudgetExceeded  func(usedMs, budgetMs float64)
	onQualityAdjusted func(factor float64)
}

// NewManager creates a frame budget manager.
func NewManager(cfg Config, logger zerolog.Logger) *Manager {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.BudgetAllocation <= 0 {
		cfg.BudgetAllocation = 1.0
	}
	if cfg.MinQualityFactor <= 0 {
		cfg.MinQualityFactor = 0.3
	}

	return &Manager{
		logger:           logger.With().Str("component", "frame-budget").Logger(),
		now:              time.Now,
		budgetMs:         (1000.0 / float64(cfg.TargetFPS)) * cfg.BudgetAllocation,
		minQualityFactor: cfg.MinQualityFactor,
		openWork:         make(map[string]time.Time),
		qualityFactor:    1,
	}
}

// SetHandlers installs the overflow callbacks. OnBudgetExceeded fires at most
// once per frame, at the over-budget transition; OnQualityAdjusted fires once
// per RecordFrameComplete whose snapshotted frame had overflowed.
func (m *Manager) SetHandlers(onBudgetExceeded func(usedMs, budgetMs float64), onQualityAdjusted func(factor float64)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onBudgetExceeded = onBudgetExceeded
	m.onQualityAdjusted = onQualityAdjusted
}

// StartWork records a wall-clock start for id, overwriting any prior
// unmatched start.
func (m *Manager) StartWork(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openWork[id] = m.now()
}

// EndWork closes the span for id and charges it against the frame budget.
// Unknown ids are a no-op.
func (m *Manager) EndWork(id string) {
	m.mu.Lock()
	start, ok := m.openWork[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.openWork, id)

	elapsed := m.now().Sub(start).Seconds() * 1000
	m.usedMs += elapsed

	var cb func(usedMs, budgetMs float64)
	var used, budget float64
	if m.usedMs > m.budgetMs && !m.overBudget {
		m.overBudget = true
		cb = m.onBudgetExceeded
		used, budget = m.usedMs, m.budgetMs
	}
	m.mu.Unlock()

	if cb != nil {
		m.logger.Warn().
			Float64("used_ms", used).
			Float64("budget_ms", budget).
			Msg("Frame budget exceeded")
		cb(used, budget)
	}
}

// ResetFrame zeroes the running sum, clears the over-budget flag, and
// discards any still-open work spans.
func (m *Manager) ResetFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetFrameLocked()
}

func (m *Manager) resetFrameLocked() {
	m.usedMs = 0
	m.overBudget = false
	for id := range m.openWork {
		delete(m.openWork, id)
	}
}

// RemainingBudget returns the unspent portion of the frame budget in ms,
// never negative.
func (m *Manager) RemainingBudget() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rem := m.budgetMs - m.usedMs; rem > 0 {
		return rem
	}
	return 0
}

// CanFitWork reports whether an estimated cost fits the remaining budget.
func (m *Manager) CanFitWork(estimateMs float64) bool {
	return m.RemainingBudget() >= estimateMs
}

// QualitySuggestion recommends a fidelity reduction proportional to the
// current overage.
func (m *Manager) QualitySuggestion() QualitySuggestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.qualitySuggestionLocked(m.usedMs, m.overBudget)
}

func (m *Manager) qualitySuggestionLocked(usedMs float64, overBudget bool) QualitySuggestion {
	if !overBudget {
		return QualitySuggestion{Factor: 1}
	}

	overageRatio := usedMs / m.budgetMs
	factor := 1 / overageRatio
	if factor < m.minQualityFactor {
		factor = m.minQualityFactor
	}

	return QualitySuggestion{
		ShouldReduce: true,
		Factor:       factor,
		Reason:       fmt.Sprintf("frame budget exceeded by %.0f%%", (overageRatio-1)*100),
	}
}

// RecordFrameComplete folds the finished frame into the metrics, applies any
// quality adjustment, and resets for the next frame.
func (m *Manager) RecordFrameComplete() {
	m.mu.Lock()

	frameMs := m.usedMs
	overflowed := m.overBudget

	m.metrics.FramesRecorded++
	m.metrics.TotalFrameTime += frameMs
	if frameMs > m.metrics.PeakFrameTime {
		m.metrics.PeakFrameTime = frameMs
	}

	var cb func(float64)
	var factor float64
	if overflowed {
		m.metrics.OverflowCount++
		suggestion := m.qualitySuggestionLocked(frameMs, true)
		m.qualityFactor = suggestion.Factor
		cb = m.onQualityAdjusted
		factor = suggestion.Factor
	}

	m.resetFrameLocked()
	m.mu.Unlock()

	if cb != nil {
		m.logger.Info().Float64("factor", factor).Msg("Quality factor adjusted")
		cb(factor)
	}
}

// ResetMetrics zeroes the cumulative metrics and restores the quality factor.
func (m *Manager) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics = Metrics{}
	m.qualityFactor = 1
}

// GetMetrics returns a copy of the cumulative metrics.
func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// AverageFrameTime returns the mean recorded frame time, or 0 when no frames
// have been recorded.
func (m *Manager) AverageFrameTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metrics.FramesRecorded == 0 {
		return 0
	}
	return m.metrics.TotalFrameTime / float64(m.metrics.FramesRecorded)
}

// BudgetMs returns the configured per-frame budget.
func (m *Manager) BudgetMs() float64 {
	return m.budgetMs
}

// UsedMs returns the running sum charged so far this frame.
func (m *Manager) UsedMs() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usedMs
}

// IsOverBudget reports whether this frame has exceeded its budget.
func (m *Manager) IsOverBudget() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overBudget
}

// QualityFactor returns the most recently applied quality factor.
func (m *Manager) QualityFactor() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.qualityFactor
}
