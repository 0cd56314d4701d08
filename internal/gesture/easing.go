package gesture

import "math"

// Easing selects the interpolation curve applied over a keyframe segment.
type Easing int

const (
	EaseLinear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseBounce
	EaseElastic
)

func (e Easing) String() string {
	switch e {
	case EaseIn:
		return "easeIn"
	case EaseOut:
		return "easeOut"
	case EaseInOut:
		return "easeInOut"
	case EaseBounce:
		return "bounce"
	case EaseElastic:
		return "elastic"
	default:
		return "linear"
	}
}

// Apply maps linear progress t in [0,1] to eased progress.
func (e Easing) Apply(t float32) float32 {
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return 1 - (1-t)*(1-t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	case EaseBounce:
		return bounceOut(t)
	case EaseElastic:
		return elasticOut(t)
	default:
		return t
	}
}

func bounceOut(t float32) float32 {
	const n1 float32 = 7.5625
	const d1 float32 = 2.75

	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func elasticOut(t float32) float32 {
	if t == 0 {
		return 0
	}
	if t == 1 {
		return 1
	}
	const c4 = (2 * math.Pi) / 3
	return float32(math.Pow(2, float64(-10*t))*math.Sin(float64(10*t-0.75)*c4)) + 1
}
