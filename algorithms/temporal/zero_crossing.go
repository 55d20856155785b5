package temporal

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/freqdetect/algorithms/common"
)

// ErrInsufficientCrossings is returned when a burst has fewer than two rising
// zero crossings, so no crossing interval can be measured
var ErrInsufficientCrossings = errors.New("fewer than two rising zero crossings")

// ZeroCrossingEstimator estimates the frequency of fixed-length integer bursts
// from the mean spacing of their rising zero crossings.
//
// A rising crossing sits between samples i and i+1 when samples[i] < 0 and
// samples[i+1] >= 0; its fractional position is found by linear
// interpolation. Only rising edges are used, one per cycle.
//
// The estimator reuses an internal crossing buffer and must not be shared
// between goroutines.
type ZeroCrossingEstimator struct {
	size      int
	crossings []float64
}

// NewZeroCrossingEstimator creates an estimator for bursts of size samples.
// It panics if size < 2.
func NewZeroCrossingEstimator(size int) *ZeroCrossingEstimator {
	if size < 2 {
		panic(fmt.Sprintf("temporal: burst length must be at least 2, got %d", size))
	}
	return &ZeroCrossingEstimator{
		size:      size,
		crossings: make([]float64, 0, size/2),
	}
}

// Size returns the burst length the estimator was built for
func (z *ZeroCrossingEstimator) Size() int {
	return z.size
}

// Estimate returns sampleRate divided by the mean interval, in samples,
// between consecutive rising zero crossings. A burst with fewer than two
// crossings yields an error wrapping ErrInsufficientCrossings.
// len(samples) must equal Size(); otherwise Estimate panics.
func (z *ZeroCrossingEstimator) Estimate(samples []int, sampleRate int) (float64, error) {
	z.crossings = z.appendCrossings(z.crossings[:0], samples)

	meanDiff, ok := common.MeanDifference(z.crossings)
	if !ok {
		return 0, fmt.Errorf("%w: found %d", ErrInsufficientCrossings, len(z.crossings))
	}

	return float64(sampleRate) / meanDiff, nil
}

// Crossings returns the interpolated positions of the rising zero crossings
// of samples, in ascending order. The result is a new slice.
func (z *ZeroCrossingEstimator) Crossings(samples []int) []float64 {
	return z.appendCrossings(nil, samples)
}

func (z *ZeroCrossingEstimator) appendCrossings(dst []float64, samples []int) []float64 {
	if len(samples) != z.size {
		panic(fmt.Sprintf("temporal: burst has %d samples, estimator expects %d", len(samples), z.size))
	}

	for i := 0; i < z.size-1; i++ {
		if samples[i] < 0 && samples[i+1] >= 0 {
			dst = append(dst, common.LinearRoot(i, float64(samples[i]), float64(samples[i+1])))
		}
	}

	return dst
}
