package windowing

import (
	"fmt"
	"math"
)

// Four-term Blackman-Harris coefficients (-92 dB sidelobes)
const (
	bhA0 = 0.35875
	bhA1 = 0.48829
	bhA2 = 0.14128
	bhA3 = 0.01168
)

// BlackmanHarrisCoefficients returns the symmetric four-term Blackman-Harris
// window of length n, so that w[0] == w[n-1]. It panics if n < 2, where the
// denominator n-1 would be zero.
func BlackmanHarrisCoefficients(n int) []float64 {
	if n < 2 {
		panic(fmt.Sprintf("windowing: Blackman-Harris window needs at least 2 points, got %d", n))
	}

	coefficients := make([]float64, n)
	denominator := float64(n - 1)
	for i := 0; i < n; i++ {
		arg := 2 * math.Pi * float64(i) / denominator
		coefficients[i] = bhA0 - bhA1*math.Cos(arg) + bhA2*math.Cos(2*arg) - bhA3*math.Cos(3*arg)
	}

	return coefficients
}

// BlackmanHarris is a precomputed symmetric Blackman-Harris window.
// Coefficients are computed once and never change.
type BlackmanHarris struct {
	size         int
	coefficients []float64
}

// NewBlackmanHarris creates a new Blackman-Harris window. It panics if size < 2.
func NewBlackmanHarris(size int) *BlackmanHarris {
	return &BlackmanHarris{
		size:         size,
		coefficients: BlackmanHarrisCoefficients(size),
	}
}

// ApplyInts writes samples[i]*w[i] into dst. Both slices must have the window
// length; anything else is a caller bug and panics.
func (bh *BlackmanHarris) ApplyInts(dst []float64, samples []int) {
	if len(samples) != bh.size || len(dst) != bh.size {
		panic(fmt.Sprintf("windowing: ApplyInts lengths (dst %d, samples %d) don't match window size %d",
			len(dst), len(samples), bh.size))
	}

	for i, w := range bh.coefficients {
		dst[i] = float64(samples[i]) * w
	}
}
