// Package gesture drives keyframe-based body/head gesture animations for the
// avatar. The engine is passive: the host frame loop calls Tick once per
// display refresh and reads the resulting Transform snapshot.
package gesture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PlayOptions tune a single playback. Zero values mean defaults
// (speed 1, intensity 1, no completion callback).
type PlayOptions struct {
	Speed      float32
	Intensity  float32
	OnComplete func()
}

type session struct {
	anim       Animation
	start      time.Time
	speed      float32
	intensity  float32
	onComplete func()
}

type queuedGesture struct {
	gestureType Type
	opts        *PlayOptions
}

// Engine runs at most one gesture session at a time and drains a FIFO queue
// on natural completions. All methods are safe for concurrent use, though the
// intended model is a single frame loop owning Tick.
type Engine struct {
	mu     sync.RWMutex
	logger zerolog.Logger
	now    func() time.Time

	allowInterrupt bool

	session   *session
	queue     []queuedGesture
	transform Transform
	progress  float32

	onGestureStart func(Type)
	onGestureEnd   func(Type)
}

// NewEngine creates an engine with interruption allowed.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger:         logger.With().Str("component", "gesture-engine").Logger(),
		now:            time.Now,
		allowInterrupt: true,
		transform:      IdentityTransform(),
	}
}

// SetAllowInterrupt toggles whether Play may pre-empt a non-interruptible
// active animation. PlayCustom always pre-empts regardless.
func (e *Engine) SetAllowInterrupt(allow bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.allowInterrupt = allow
}

// SetGestureHandlers installs engine-level start/end notifications.
func (e *Engine) SetGestureHandlers(onStart, onEnd func(Type)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onGestureStart = onStart
	e.onGestureEnd = onEnd
}

// Play starts a catalog gesture. Unknown types are ignored, as is a request
// blocked by the interrupt-permission rule.
func (e *Engine) Play(t Type, opts *PlayOptions) {
	anim, ok := Lookup(t)
	if !ok {
		e.logger.Debug().Str("gesture", string(t)).Msg("Unknown gesture type, ignoring")
		return
	}

	e.mu.Lock()
	if e.session != nil && !e.allowInterrupt && !e.session.anim.Interruptible {
		e.mu.Unlock()
		e.logger.Debug().Str("gesture", string(t)).Msg("Active animation not interruptible, ignoring")
		return
	}
	e.installSession(anim, opts)
	onStart := e.onGestureStart
	e.mu.Unlock()

	e.logger.Debug().Str("gesture", string(t)).Msg("Gesture started")
	if onStart != nil {
		onStart(t)
	}
}

// PlayCustom plays an ad hoc animation, bypassing the catalog lookup and the
// interrupt-permission check. Empty or zero-length animations are ignored.
func (e *Engine) PlayCustom(anim Animation, opts *PlayOptions) {
	if len(anim.Keyframes) == 0 || anim.DurationMs <= 0 {
		e.logger.Warn().Str("gesture", string(anim.Type)).Msg("Custom animation has no timeline, ignoring")
		return
	}

	e.mu.Lock()
	e.installSession(anim, opts)
	onStart := e.onGestureStart
	e.mu.Unlock()

	e.logger.Debug().Str("gesture", string(anim.Type)).Msg("Custom gesture started")
	if onStart != nil {
		onStart(anim.Type)
	}
}

// installSession pre-empts any active session. Caller holds e.mu.
func (e *Engine) installSession(anim Animation, opts *PlayOptions) {
	s := &session{
		anim:      anim,
		start:     e.now(),
		speed:     1,
		intensity: 1,
	}
	if opts != nil {
		if opts.Speed > 0 {
			s.speed = opts.Speed
		}
		if opts.Intensity > 0 {
			s.intensity = opts.Intensity
		}
		s.onComplete = opts.OnComplete
	}
	e.session = s
	e.progress = 0
}

// Queue plays t immediately when idle, otherwise appends it for playback
// after the current and previously queued gestures complete naturally.
func (e *Engine) Queue(t Type, opts *PlayOptions) {
	if !Known(t) {
		e.logger.Debug().Str("gesture", string(t)).Msg("Unknown gesture type, ignoring")
		return
	}

	e.mu.Lock()
	if e.session != nil {
		e.queue = append(e.queue, queuedGesture{gestureType: t, opts: opts})
		depth := len(e.queue)
		e.mu.Unlock()
		e.logger.Debug().Str("gesture", string(t)).Int("depth", depth).Msg("Gesture queued")
		return
	}
	e.mu.Unlock()

	e.Play(t, opts)
}

// Stop clears the active session and resets the transform to identity. The
// queue is left intact; pending entries resume on the next natural
// completion path only. Safe to call when nothing is playing.
func (e *Engine) Stop() {
	e.mu.Lock()
	var prev Type
	had := e.session != nil
	if had {
		prev = e.session.anim.Type
	}
	e.session = nil
	e.transform = IdentityTransform()
	e.progress = 0
	onEnd := e.onGestureEnd
	e.mu.Unlock()

	if had {
		e.logger.Debug().Str("gesture", string(prev)).Msg("Gesture stopped")
		if onEnd != nil {
			onEnd(prev)
		}
	}
}

// ClearQueue empties pending gestures without touching the active session.
func (e *Engine) ClearQueue() {
	e.mu.Lock()
	e.queue = nil
	e.mu.Unlock()
}

// Tick advances the active session to now. It either updates the transform
// in place or, on natural completion, fires callbacks and starts the next
// queued gesture.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	s := e.session
	if s == nil {
		e.mu.Unlock()
		return
	}

	elapsed := float32(now.Sub(s.start).Seconds()*1000) * s.speed

	if elapsed >= s.anim.DurationMs {
		if s.anim.Loop {
			s.start = now
			e.transform = sample(s.anim, 0, s.intensity)
			e.progress = 0
			e.mu.Unlock()
			return
		}

		e.progress = 1
		e.session = nil
		e.transform = IdentityTransform()
		var next *queuedGesture
		if len(e.queue) > 0 {
			next = &e.queue[0]
			e.queue = e.queue[1:]
		}
		onEnd := e.onGestureEnd
		onComplete := s.onComplete
		e.mu.Unlock()

		e.logger.Debug().Str("gesture", string(s.anim.Type)).Msg("Gesture completed")
		if onComplete != nil {
			onComplete()
		}
		if onEnd != nil {
			onEnd(s.anim.Type)
		}
		if next != nil {
			e.Play(next.gestureType, next.opts)
		}
		return
	}

	e.transform = sample(s.anim, elapsed, s.intensity)
	e.progress = elapsed / s.anim.DurationMs
	e.mu.Unlock()
}

// sample interpolates the pose at elapsed ms into the timeline. Intensity
// scales position and rotation amplitude only, never scale.
func sample(anim Animation, elapsed, intensity float32) Transform {
	kfs := anim.Keyframes
	prev, next := kfs[0], kfs[0]
	for i := 1; i < len(kfs); i++ {
		if elapsed < kfs[i].TimeMs {
			prev, next = kfs[i-1], kfs[i]
			break
		}
		prev, next = kfs[i], kfs[i]
	}

	localT := float32(1)
	if dt := next.TimeMs - prev.TimeMs; dt > 0 {
		localT = (elapsed - prev.TimeMs) / dt
	}
	eased := next.Easing.Apply(localT)

	return Transform{
		Position: lerpVec3(prev.Position, next.Position, eased).Mul(intensity),
		Rotation: lerpVec3(prev.Rotation, next.Rotation, eased).Mul(intensity),
		Scale:    lerp(scaleOr1(prev.Scale), scaleOr1(next.Scale), eased),
	}
}

func scaleOr1(s float32) float32 {
	if s == 0 {
		return 1
	}
	return s
}

// AvailableGestures returns the stable list of catalog gesture types.
func (e *Engine) AvailableGestures() []Type {
	return AvailableGestures()
}

// Transform returns the current interpolated pose.
func (e *Engine) Transform() Transform {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.transform
}

// CurrentGesture returns the active gesture type, or "" when idle.
func (e *Engine) CurrentGesture() Type {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.session == nil {
		return ""
	}
	return e.session.anim.Type
}

// IsPlaying reports whether a session is active.
func (e *Engine) IsPlaying() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session != nil
}

// Progress returns playback progress in [0,1].
func (e *Engine) Progress() float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.progress
}

// QueueLength returns the number of pending gestures.
func (e *Engine) QueueLength() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.queue)
}

// Snapshot returns an atomic per-frame view for renderers.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		Transform:   e.transform,
		IsPlaying:   e.session != nil,
		Progress:    e.progress,
		QueueLength: len(e.queue),
	}
	if e.session != nil {
		snap.CurrentGesture = e.session.anim.Type
	}
	return snap
}
