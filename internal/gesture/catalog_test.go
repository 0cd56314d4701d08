package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHasFifteenGestures(t *testing.T) {
	assert.Len(t, catalog, 15)
	assert.Len(t, AvailableGestures(), 15)
}

func TestCatalogTimelineInvariants(t *testing.T) {
	for _, gestureType := range AvailableGestures() {
		anim, ok := Lookup(gestureType)
		require.True(t, ok, "catalog entry missing for %s", gestureType)

		assert.Equal(t, gestureType, anim.Type)
		assert.GreaterOrEqual(t, anim.DurationMs, float32(400), "%s duration", gestureType)
		assert.LessOrEqual(t, anim.DurationMs, float32(2000), "%s duration", gestureType)
		assert.True(t, anim.Interruptible, "%s must be interruptible", gestureType)

		kfs := anim.Keyframes
		require.GreaterOrEqual(t, len(kfs), 3, "%s keyframe count", gestureType)
		require.LessOrEqual(t, len(kfs), 7, "%s keyframe count", gestureType)

		assert.Equal(t, float32(0), kfs[0].TimeMs, "%s first keyframe time", gestureType)
		assert.Equal(t, anim.DurationMs, kfs[len(kfs)-1].TimeMs, "%s last keyframe time", gestureType)

		for i := 1; i < len(kfs); i++ {
			assert.GreaterOrEqual(t, kfs[i].TimeMs, kfs[i-1].TimeMs,
				"%s keyframe times must be non-decreasing", gestureType)
		}
	}
}

func TestCatalogAuthoredRanges(t *testing.T) {
	for _, gestureType := range AvailableGestures() {
		anim, _ := Lookup(gestureType)
		for _, kf := range anim.Keyframes {
			for axis := 0; axis < 3; axis++ {
				assert.GreaterOrEqual(t, kf.Position[axis], float32(-1), "%s position", gestureType)
				assert.LessOrEqual(t, kf.Position[axis], float32(1), "%s position", gestureType)
			}
		}
	}
}

func TestAvailableGesturesReturnsCopy(t *testing.T) {
	a := AvailableGestures()
	a[0] = "mutated"
	b := AvailableGestures()
	assert.Equal(t, Nod, b[0])
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("backflip")
	assert.False(t, ok)
	assert.False(t, Known("backflip"))
	assert.True(t, Known(Nod))
}
