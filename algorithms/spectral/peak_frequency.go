package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/freqdetect/algorithms/common"
	"github.com/RyanBlaney/freqdetect/algorithms/windowing"
)

// Peak describes the dominant spectral component of one burst
type Peak struct {
	Bin        int     `json:"bin"`         // Integer bin with the largest magnitude
	Magnitude  float64 `json:"magnitude"`   // |X[Bin]|
	RefinedBin float64 `json:"refined_bin"` // Bin plus the parabolic offset, or Bin if not refined
	Refined    bool    `json:"refined"`     // Whether sub-bin interpolation was applied
	Frequency  float64 `json:"frequency"`   // sampleRate * RefinedBin / N, in Hz
}

// Estimator finds the dominant frequency of fixed-length integer bursts from
// a Blackman-Harris windowed real FFT, refined by a three-point parabolic fit
// on the log10 magnitudes around the peak bin.
//
// An Estimator owns its transform, window and scratch buffers and reuses them
// on every call, so it must not be used from more than one goroutine at a
// time. Build one per worker instead.
//
// Limitations: magnitude ties go to the lowest bin, and
// a peak on the first or last bin is reported unrefined.
type Estimator struct {
	size      int
	window    *windowing.BlackmanHarris
	transform Transform
	input     []float64
	spectrum  []complex128
}

// NewEstimator creates an estimator for bursts of size samples using the
// planned gonum FFT. It panics if size < 2.
func NewEstimator(size int) *Estimator {
	if size < 2 {
		panic(fmt.Sprintf("spectral: burst length must be at least 2, got %d", size))
	}
	return NewEstimatorWithTransform(NewGonumTransform(size))
}

// NewEstimatorWithTransform creates an estimator around an existing
// transform; the burst length is t.Len().
func NewEstimatorWithTransform(t Transform) *Estimator {
	size := t.Len()
	return &Estimator{
		size:      size,
		window:    windowing.NewBlackmanHarris(size),
		transform: t,
		input:     make([]float64, size),
		spectrum:  make([]complex128, size/2+1),
	}
}

// Size returns the burst length the estimator was built for
func (e *Estimator) Size() int {
	return e.size
}

// Estimate returns the dominant frequency of samples in Hz.
// len(samples) must equal Size(); otherwise Estimate panics.
func (e *Estimator) Estimate(samples []int, sampleRate int) float64 {
	return e.EstimatePeak(samples, sampleRate).Frequency
}

// EstimatePeak is Estimate with the intermediate peak search results
func (e *Estimator) EstimatePeak(samples []int, sampleRate int) Peak {
	if len(samples) != e.size {
		panic(fmt.Sprintf("spectral: burst has %d samples, estimator expects %d", len(samples), e.size))
	}

	e.window.ApplyInts(e.input, samples)
	e.transform.Forward(e.spectrum, e.input)

	peak := e.findPeak()

	peak.RefinedBin = float64(peak.Bin)
	if peak.Bin > 0 && peak.Bin < len(e.spectrum)-1 {
		prev := math.Log10(cmplx.Abs(e.spectrum[peak.Bin-1]))
		curr := math.Log10(peak.Magnitude)
		next := math.Log10(cmplx.Abs(e.spectrum[peak.Bin+1]))

		if delta, ok := common.ParabolicOffset(prev, curr, next); ok {
			peak.RefinedBin += delta
			peak.Refined = true
		}
	}

	peak.Frequency = float64(sampleRate) * peak.RefinedBin / float64(e.size)
	return peak
}

// findPeak scans the spectrum in ascending bin order; the strict comparison
// keeps the first of equal maxima.
func (e *Estimator) findPeak() Peak {
	var peak Peak
	for i, c := range e.spectrum {
		if mag := cmplx.Abs(c); mag > peak.Magnitude {
			peak.Magnitude = mag
			peak.Bin = i
		}
	}
	return peak
}
