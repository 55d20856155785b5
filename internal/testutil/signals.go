// Package testutil holds deterministic burst generators and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// SineBurst returns round(amplitude*sin(2*pi*freqHz*i/sampleRate + phase))
// for i in [0, length), the integer form an ADC capture takes.
func SineBurst(freqHz, sampleRate, amplitude, phase float64, length int) []int {
	out := make([]int, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = int(math.Round(amplitude*math.Sin(step*float64(i)+phase)))
	}
	return out
}

// NoisySineBurst adds uniform noise of the given amplitude, seeded for
// reproducibility, before rounding.
func NoisySineBurst(seed int64, freqHz, sampleRate, amplitude, noise float64, length int) []int {
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		v := amplitude*math.Sin(step*float64(i)) + (rng.Float64()*2-1)*noise
		out[i] = int(math.Round(v))
	}
	return out
}

// Constant returns a burst of length copies of value
func Constant(value, length int) []int {
	out := make([]int, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Scale multiplies every sample by k
func Scale(samples []int, k int) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = s * k
	}
	return out
}

// RequireRelClose fails t unless got is within rel (relative) of want
func RequireRelClose(t *testing.T, name string, got, want, rel float64) {
	t.Helper()
	if !scalar.EqualWithinRel(got, want, rel) {
		t.Fatalf("%s = %v, want %v within %.3g%% (off by %.4g%%)",
			name, got, want, rel*100, 100*math.Abs(got-want)/math.Abs(want))
	}
}
