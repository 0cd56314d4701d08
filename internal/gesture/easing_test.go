package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEasingMidpoints(t *testing.T) {
	assert.InDelta(t, 0.5, EaseLinear.Apply(0.5), 1e-6)
	assert.InDelta(t, 0.25, EaseIn.Apply(0.5), 1e-6)
	assert.InDelta(t, 0.75, EaseOut.Apply(0.5), 1e-6)
	assert.InDelta(t, 0.5, EaseInOut.Apply(0.5), 1e-6)
	assert.InDelta(t, 0.125, EaseInOut.Apply(0.25), 1e-6)
}

func TestEasingPreservesBoundaries(t *testing.T) {
	laws := []Easing{EaseLinear, EaseIn, EaseOut, EaseInOut, EaseBounce, EaseElastic}

	for _, law := range laws {
		assert.InDelta(t, 0.0, law.Apply(0), 1e-5, "%s at 0", law)
		assert.InDelta(t, 1.0, law.Apply(1), 1e-5, "%s at 1", law)
	}
}

func TestBounceSegments(t *testing.T) {
	// First bounce segment is a plain parabola.
	assert.InDelta(t, 7.5625*0.2*0.2, EaseBounce.Apply(0.2), 1e-6)
	// Later segments stay within [0,1].
	for _, tt := range []float32{0.4, 0.75, 0.95} {
		v := EaseBounce.Apply(tt)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestElasticOvershoots(t *testing.T) {
	// Elastic is allowed to overshoot 1 mid-curve but must settle near it.
	v := EaseElastic.Apply(0.9)
	assert.InDelta(t, 1.0, v, 0.2)
}

func TestEasingString(t *testing.T) {
	assert.Equal(t, "linear", EaseLinear.String())
	assert.Equal(t, "bounce", EaseBounce.String())
	assert.Equal(t, "elastic", EaseElastic.String())
}
