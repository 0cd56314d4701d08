package gesture

import "github.com/go-gl/mathgl/mgl32"

// Transform is the interpolated head/body pose produced by the active
// gesture. Position components are in the authored -1..1 range, rotation is
// pitch/yaw/roll in degrees.
type Transform struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    float32    `json:"scale"`
}

// IdentityTransform is the rest pose used whenever nothing is playing.
func IdentityTransform() Transform {
	return Transform{Scale: 1.0}
}

// Snapshot is the per-frame view handed to a renderer.
type Snapshot struct {
	Transform      Transform `json:"transform"`
	CurrentGesture Type      `json:"currentGesture,omitempty"`
	IsPlaying      bool      `json:"isPlaying"`
	Progress       float32   `json:"progress"`
	QueueLength    int       `json:"queueLength"`
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		lerp(a[0], b[0], t),
		lerp(a[1], b[1], t),
		lerp(a[2], b[2], t),
	}
}
