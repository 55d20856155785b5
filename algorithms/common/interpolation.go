package common

import (
	"math"
)

// ParabolicOffset fits a parabola through three equally spaced points
// (x = -1, 0, 1) and returns the x position of its vertex relative to the
// centre point:
//
//	delta = 0.5 * (prev - next) / (prev - 2*curr + next)
//
// ok is false when the three points are collinear (zero denominator) or when
// any input is non-finite, in which case delta is 0 and the caller keeps the
// integer position.
func ParabolicOffset(prev, curr, next float64) (delta float64, ok bool) {
	denominator := prev - 2*curr + next
	if denominator == 0 {
		return 0, false
	}

	delta = 0.5 * (prev - next) / denominator
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, false
	}

	return delta, true
}

// LinearRoot returns the fractional index where the straight line through
// (i, y0) and (i+1, y1) crosses zero: i - y0/(y1-y0). When y0 == y1 the line
// has no single root and i is returned unchanged.
func LinearRoot(i int, y0, y1 float64) float64 {
	if y1 == y0 {
		return float64(i)
	}
	return float64(i) - y0/(y1-y0)
}

// MeanDifference returns the mean of the first differences of values, or
// false when there are fewer than two values.
func MeanDifference(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}

	sum := 0.0
	for i := 1; i < len(values); i++ {
		sum += values[i] - values[i-1]
	}

	return sum / float64(len(values)-1), true
}
