// Package driver autonomously triggers gestures while the avatar is
// speaking. It is a thin layer over the gesture engine: the host frame loop
// feeds it Update once per frame and it schedules one-shot gesture plays at
// randomized intervals and intensities.
package driver

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexgesture/internal/gesture"
)

// DefaultFrequency is the average inter-gesture period while speaking.
const DefaultFrequency = 5 * time.Second

// DefaultGestures is the enabled subset used when none is configured.
var DefaultGestures = []gesture.Type{
	gesture.Nod, gesture.Tilt, gesture.Emphasis, gesture.Acknowledge,
}

// Config tunes the conversational driver.
type Config struct {
	EnabledGestures  []gesture.Type
	GestureFrequency time.Duration
}

// Driver plays random enabled gestures while an external speaking signal is
// active. It never stops a gesture mid-playback; when speaking ends, only
// the pending timer is cancelled.
type Driver struct {
	mu     sync.Mutex
	logger zerolog.Logger
	engine *gesture.Engine
	now    func() time.Time
	rng    *rand.Rand

	enabled   []gesture.Type
	frequency time.Duration

	speaking bool
	nextAt   time.Time // zero when no gesture is pending
	fired    bool      // whether a gesture has fired since speaking began
}

// New creates a driver on top of engine.
func New(engine *gesture.Engine, cfg Config, logger zerolog.Logger) *Driver {
	enabled := cfg.EnabledGestures
	if len(enabled) == 0 {
		enabled = DefaultGestures
	}
	frequency := cfg.GestureFrequency
	if frequency <= 0 {
		frequency = DefaultFrequency
	}

	return &Driver{
		logger:    logger.With().Str("component", "gesture-driver").Logger(),
		engine:    engine,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		enabled:   append([]gesture.Type(nil), enabled...),
		frequency: frequency,
	}
}

// SetSpeaking toggles the external speaking signal. Turning it on schedules
// an initial gesture after 1-3s; turning it off cancels any pending timer.
func (d *Driver) SetSpeaking(speaking bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if speaking == d.speaking {
		return
	}
	d.speaking = speaking

	if speaking {
		delay := time.Second + time.Duration(d.rng.Float64()*2000)*time.Millisecond
		d.nextAt = d.now().Add(delay)
		d.fired = false
		d.logger.Debug().Dur("initial_delay", delay).Msg("Speaking started")
		return
	}

	d.nextAt = time.Time{}
	d.logger.Debug().Msg("Speaking stopped")
}

// IsSpeaking reports the current speaking signal.
func (d *Driver) IsSpeaking() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speaking
}

// SetEnabledGestures replaces the gesture subset the driver picks from.
// An empty list restores the defaults.
func (d *Driver) SetEnabledGestures(types []gesture.Type) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(types) == 0 {
		types = DefaultGestures
	}
	d.enabled = append([]gesture.Type(nil), types...)
}

// SetFrequency replaces the average inter-gesture period.
func (d *Driver) SetFrequency(frequency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if frequency > 0 {
		d.frequency = frequency
	}
}

// Update fires a pending gesture whose deadline has passed and reschedules
// the next one. Called once per frame by the host loop.
func (d *Driver) Update(now time.Time) {
	d.mu.Lock()
	if !d.speaking || d.nextAt.IsZero() || now.Before(d.nextAt) {
		d.mu.Unlock()
		return
	}

	t := d.enabled[d.rng.Intn(len(d.enabled))]

	var opts *gesture.PlayOptions
	if d.fired {
		opts = &gesture.PlayOptions{Intensity: 0.7 + d.rng.Float32()*0.3}
	}
	d.fired = true

	interval := time.Duration(float64(d.frequency) * (0.5 + d.rng.Float64()))
	d.nextAt = now.Add(interval)
	d.mu.Unlock()

	d.logger.Debug().Str("gesture", string(t)).Dur("next_in", interval).Msg("Conversational gesture")
	d.engine.Play(t, opts)
}

// Transform returns the engine's live pose for rendering.
func (d *Driver) Transform() gesture.Transform {
	return d.engine.Transform()
}

// CurrentGesture returns the active gesture type, or "" when idle.
func (d *Driver) CurrentGesture() gesture.Type {
	return d.engine.CurrentGesture()
}
