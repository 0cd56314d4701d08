package gesture

import "github.com/go-gl/mathgl/mgl32"

// Type identifies a catalog gesture.
type Type string

const (
	Nod         Type = "nod"
	Shake       Type = "shake"
	Tilt        Type = "tilt"
	LeanForward Type = "lean_forward"
	LeanBack    Type = "lean_back"
	Wave        Type = "wave"
	Point       Type = "point"
	Shrug       Type = "shrug"
	Thinking    Type = "thinking"
	Emphasis    Type = "emphasis"
	Calm        Type = "calm"
	Celebrate   Type = "celebrate"
	Acknowledge Type = "acknowledge"
	Listen      Type = "listen"
	Idle        Type = "idle"
)

// Keyframe is an authored pose at a time offset within a gesture timeline.
// Position components are authored in -1..1, rotation in degrees. A zero
// Scale means "unchanged" (1.0). Easing applies over the segment that ends
// at this keyframe.
type Keyframe struct {
	TimeMs   float32
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    float32
	Easing   Easing
}

// Animation is a complete gesture timeline. Catalog entries are immutable;
// custom animations may be played directly via PlayCustom.
type Animation struct {
	Type          Type
	DurationMs    float32
	Keyframes     []Keyframe
	Loop          bool
	Interruptible bool
}

// catalogOrder is the stable ordering reported by AvailableGestures.
var catalogOrder = []Type{
	Nod, Shake, Tilt, LeanForward, LeanBack,
	Wave, Point, Shrug, Thinking, Emphasis,
	Calm, Celebrate, Acknowledge, Listen, Idle,
}

var catalog = map[Type]Animation{
	Nod: {
		Type:          Nod,
		DurationMs:    600,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 150, Rotation: mgl32.Vec3{12, 0, 0}, Easing: EaseOut},
			{TimeMs: 300, Rotation: mgl32.Vec3{-2, 0, 0}, Easing: EaseInOut},
			{TimeMs: 450, Rotation: mgl32.Vec3{8, 0, 0}, Easing: EaseInOut},
			{TimeMs: 600, Easing: EaseIn},
		},
	},
	Shake: {
		Type:          Shake,
		DurationMs:    700,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 140, Rotation: mgl32.Vec3{0, -15, 0}, Easing: EaseOut},
			{TimeMs: 350, Rotation: mgl32.Vec3{0, 15, 0}, Easing: EaseInOut},
			{TimeMs: 560, Rotation: mgl32.Vec3{0, -8, 0}, Easing: EaseInOut},
			{TimeMs: 700, Easing: EaseIn},
		},
	},
	Tilt: {
		Type:          Tilt,
		DurationMs:    800,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 250, Rotation: mgl32.Vec3{0, 0, 14}, Easing: EaseOut},
			{TimeMs: 550, Rotation: mgl32.Vec3{0, 0, 14}},
			{TimeMs: 800, Easing: EaseInOut},
		},
	},
	LeanForward: {
		Type:          LeanForward,
		DurationMs:    900,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 400, Position: mgl32.Vec3{0, -0.05, 0.3}, Rotation: mgl32.Vec3{6, 0, 0}, Easing: EaseOut},
			{TimeMs: 900, Easing: EaseInOut},
		},
	},
	LeanBack: {
		Type:          LeanBack,
		DurationMs:    900,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 400, Position: mgl32.Vec3{0, 0.04, -0.25}, Rotation: mgl32.Vec3{-8, 0, 0}, Easing: EaseOut},
			{TimeMs: 900, Easing: EaseInOut},
		},
	},
	Wave: {
		Type:          Wave,
		DurationMs:    1200,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 200, Position: mgl32.Vec3{0.2, 0.1, 0}, Rotation: mgl32.Vec3{0, 0, -10}, Easing: EaseOut},
			{TimeMs: 450, Position: mgl32.Vec3{0.25, 0.12, 0}, Rotation: mgl32.Vec3{0, 0, 12}, Easing: EaseInOut},
			{TimeMs: 700, Position: mgl32.Vec3{0.2, 0.1, 0}, Rotation: mgl32.Vec3{0, 0, -12}, Easing: EaseInOut},
			{TimeMs: 950, Position: mgl32.Vec3{0.25, 0.12, 0}, Rotation: mgl32.Vec3{0, 0, 10}, Easing: EaseInOut},
			{TimeMs: 1200, Easing: EaseIn},
		},
	},
	Point: {
		Type:          Point,
		DurationMs:    800,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 250, Position: mgl32.Vec3{0.1, 0, 0.2}, Rotation: mgl32.Vec3{0, 18, 0}, Easing: EaseOut},
			{TimeMs: 550, Position: mgl32.Vec3{0.1, 0, 0.2}, Rotation: mgl32.Vec3{0, 18, 0}},
			{TimeMs: 800, Easing: EaseInOut},
		},
	},
	Shrug: {
		Type:          Shrug,
		DurationMs:    700,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 220, Position: mgl32.Vec3{0, 0.15, 0}, Rotation: mgl32.Vec3{-4, 0, 3}, Scale: 1.02, Easing: EaseOut},
			{TimeMs: 480, Position: mgl32.Vec3{0, 0.15, 0}, Rotation: mgl32.Vec3{-4, 0, -3}, Scale: 1.02},
			{TimeMs: 700, Easing: EaseBounce},
		},
	},
	Thinking: {
		Type:          Thinking,
		DurationMs:    2000,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 500, Rotation: mgl32.Vec3{-6, -10, 8}, Easing: EaseInOut},
			{TimeMs: 1000, Rotation: mgl32.Vec3{-8, -12, 8}, Easing: EaseInOut},
			{TimeMs: 1500, Rotation: mgl32.Vec3{-6, -10, 8}, Easing: EaseInOut},
			{TimeMs: 2000, Easing: EaseInOut},
		},
	},
	Emphasis: {
		Type:          Emphasis,
		DurationMs:    500,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 120, Position: mgl32.Vec3{0, -0.03, 0.1}, Rotation: mgl32.Vec3{9, 0, 0}, Easing: EaseOut},
			{TimeMs: 280, Position: mgl32.Vec3{0, 0.02, 0}, Rotation: mgl32.Vec3{-3, 0, 0}, Easing: EaseInOut},
			{TimeMs: 500, Easing: EaseIn},
		},
	},
	Calm: {
		Type:          Calm,
		DurationMs:    1500,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 750, Position: mgl32.Vec3{0, -0.02, -0.05}, Rotation: mgl32.Vec3{3, 0, 0}, Scale: 0.99, Easing: EaseInOut},
			{TimeMs: 1500, Easing: EaseInOut},
		},
	},
	Celebrate: {
		Type:          Celebrate,
		DurationMs:    1000,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 200, Position: mgl32.Vec3{0, 0.25, 0}, Rotation: mgl32.Vec3{-10, 0, 0}, Scale: 1.05, Easing: EaseOut},
			{TimeMs: 400, Position: mgl32.Vec3{0, 0.1, 0}, Rotation: mgl32.Vec3{-5, 0, 6}, Scale: 1.03, Easing: EaseBounce},
			{TimeMs: 600, Position: mgl32.Vec3{0, 0.2, 0}, Rotation: mgl32.Vec3{-8, 0, -6}, Scale: 1.04, Easing: EaseInOut},
			{TimeMs: 800, Position: mgl32.Vec3{0, 0.05, 0}, Scale: 1.01, Easing: EaseBounce},
			{TimeMs: 1000, Easing: EaseOut},
		},
	},
	Acknowledge: {
		Type:          Acknowledge,
		DurationMs:    400,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 180, Rotation: mgl32.Vec3{7, 0, 0}, Easing: EaseOut},
			{TimeMs: 400, Easing: EaseInOut},
		},
	},
	Listen: {
		Type:          Listen,
		DurationMs:    1800,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 450, Rotation: mgl32.Vec3{2, 8, 5}, Easing: EaseOut},
			{TimeMs: 1350, Rotation: mgl32.Vec3{2, 8, 5}},
			{TimeMs: 1800, Easing: EaseInOut},
		},
	},
	Idle: {
		Type:          Idle,
		DurationMs:    2000,
		Loop:          true,
		Interruptible: true,
		Keyframes: []Keyframe{
			{TimeMs: 0},
			{TimeMs: 500, Position: mgl32.Vec3{0, 0.015, 0}, Rotation: mgl32.Vec3{-1, 0, 0}, Easing: EaseInOut},
			{TimeMs: 1000, Position: mgl32.Vec3{0, 0.03, 0}, Rotation: mgl32.Vec3{-2, 0, 0}, Easing: EaseInOut},
			{TimeMs: 1500, Position: mgl32.Vec3{0, 0.015, 0}, Rotation: mgl32.Vec3{-1, 0, 0}, Easing: EaseInOut},
			{TimeMs: 2000, Easing: EaseInOut},
		},
	},
}

// Lookup returns the catalog entry for t.
func Lookup(t Type) (Animation, bool) {
	anim, ok := catalog[t]
	return anim, ok
}

// Known reports whether t is a catalog gesture.
func Known(t Type) bool {
	_, ok := catalog[t]
	return ok
}

// AvailableGestures returns the catalog keys in stable order.
func AvailableGestures() []Type {
	out := make([]Type, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}
