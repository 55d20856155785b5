package temporal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/RyanBlaney/freqdetect/internal/testutil"
	"gonum.org/v1/gonum/floats/scalar"
)

const testSampleRate = 100_000_000

func TestZeroCrossingPureSine(t *testing.T) {
	tests := []struct {
		freq float64
		n    int
	}{
		{freq: 1_000_000, n: 511},
		{freq: 5_000_000, n: 511},
		{freq: 10_000_000, n: 511},
		{freq: 12_345_678, n: 511},
		{freq: 33_000_000, n: 1024},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0fHz_n%d", tt.freq, tt.n), func(t *testing.T) {
			z := NewZeroCrossingEstimator(tt.n)
			burst := testutil.SineBurst(tt.freq, testSampleRate, 1000, 0.7, tt.n)

			got, err := z.Estimate(burst, testSampleRate)
			if err != nil {
				t.Fatalf("Estimate: %v", err)
			}
			testutil.RequireRelClose(t, "frequency", got, tt.freq, 0.01)
		})
	}
}

func TestZeroCrossingReferenceBurst(t *testing.T) {
	const f0 = 10e6

	z := NewZeroCrossingEstimator(512)
	got, err := z.Estimate(testutil.SineBurst(f0, testSampleRate, 1000, 0, 512), testSampleRate)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	testutil.RequireRelClose(t, "frequency", got, f0, 0.02)
}

func TestZeroCrossingExactPositions(t *testing.T) {
	tests := []struct {
		name    string
		samples []int
		want    []float64
	}{
		{
			name:    "alternating",
			samples: []int{-1, 1, -1, 1, -1, 1, -1, 1},
			want:    []float64{0.5, 2.5, 4.5, 6.5},
		},
		{
			name:    "lands_on_zero",
			samples: []int{-4, 0, 3, -2, 0, 5, -1, -1},
			want:    []float64{1, 4},
		},
		{
			name:    "quarter_offset",
			samples: []int{-1, 3, 3, 3, -3, 1, 1, 1},
			want:    []float64{0.25, 4.75},
		},
		{
			name:    "falling_edges_ignored",
			samples: []int{5, -5, -5, 5, 5, -5, -5, -5},
			want:    []float64{2.5},
		},
		{
			name:    "last_pair_counts",
			samples: []int{1, 1, 1, 1, 1, 1, -2, 2},
			want:    []float64{6.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewZeroCrossingEstimator(len(tt.samples))
			got := z.Crossings(tt.samples)
			if len(got) != len(tt.want) {
				t.Fatalf("crossings = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !scalar.EqualWithinAbs(got[i], tt.want[i], 1e-12) {
					t.Fatalf("crossing %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestZeroCrossingAlternatingIsHalfRate(t *testing.T) {
	z := NewZeroCrossingEstimator(8)
	got, err := z.Estimate([]int{-1, 1, -1, 1, -1, 1, -1, 1}, 1000)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if got != 500 {
		t.Fatalf("frequency = %v, want 500", got)
	}
}

func TestZeroCrossingInsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		samples []int
	}{
		{name: "one_crossing", samples: []int{-5, -3, -1, 2, 4, 6, 8, 9}},
		{name: "no_crossing_positive", samples: testutil.Constant(3, 8)},
		{name: "no_crossing_negative", samples: testutil.Constant(-3, 8)},
		{name: "all_zero", samples: testutil.Constant(0, 8)},
		{name: "falling_only", samples: []int{4, 2, -1, -3, -5, -7, -9, -9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewZeroCrossingEstimator(len(tt.samples))
			got, err := z.Estimate(tt.samples, testSampleRate)
			if !errors.Is(err, ErrInsufficientCrossings) {
				t.Fatalf("err = %v, want ErrInsufficientCrossings", err)
			}
			if got != 0 {
				t.Fatalf("frequency = %v, want 0 on failure", got)
			}
		})
	}
}

func TestZeroCrossingReusesBuffer(t *testing.T) {
	z := NewZeroCrossingEstimator(511)
	a := testutil.SineBurst(7e6, testSampleRate, 1000, 0, 511)
	b := testutil.SineBurst(19e6, testSampleRate, 1000, 0, 511)

	first, err := z.Estimate(a, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := z.Estimate(b, testSampleRate); err != nil {
		t.Fatal(err)
	}
	again, err := z.Estimate(a, testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Fatalf("second estimate = %v, first = %v", again, first)
	}
}

func TestZeroCrossingPanics(t *testing.T) {
	t.Run("length_mismatch", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("Estimate did not panic on a long burst")
			}
		}()
		_, _ = NewZeroCrossingEstimator(8).Estimate(make([]int, 9), testSampleRate)
	})

	t.Run("short_estimator", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("NewZeroCrossingEstimator(1) did not panic")
			}
		}()
		NewZeroCrossingEstimator(1)
	})
}

func BenchmarkZeroCrossingEstimate(b *testing.B) {
	z := NewZeroCrossingEstimator(511)
	burst := testutil.SineBurst(10e6, testSampleRate, 1000, 0, 511)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := z.Estimate(burst, testSampleRate); err != nil {
			b.Fatal(err)
		}
	}
}
