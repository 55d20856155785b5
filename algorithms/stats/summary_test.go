package stats

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{
			name:   "single",
			values: []float64{10e6},
			want:   Summary{Count: 1, Mean: 10e6, StdDev: 0, Min: 10e6, Max: 10e6},
		},
		{
			name:   "population_not_sample",
			values: []float64{2, 4, 4, 4, 5, 5, 7, 9},
			want:   Summary{Count: 8, Mean: 5, StdDev: 2, Min: 2, Max: 9},
		},
		{
			name:   "pair",
			values: []float64{9_990_000, 10_010_000},
			want:   Summary{Count: 2, Mean: 10_000_000, StdDev: 10_000, Min: 9_990_000, Max: 10_010_000},
		},
		{
			name:   "negative",
			values: []float64{-1, 1},
			want:   Summary{Count: 2, Mean: 0, StdDev: 1, Min: -1, Max: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Summarize(tt.values)
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if got.Count != tt.want.Count {
				t.Fatalf("count = %d, want %d", got.Count, tt.want.Count)
			}
			checks := []struct {
				field     string
				got, want float64
			}{
				{"mean", got.Mean, tt.want.Mean},
				{"std_dev", got.StdDev, tt.want.StdDev},
				{"min", got.Min, tt.want.Min},
				{"max", got.Max, tt.want.Max},
			}
			for _, c := range checks {
				if !scalar.EqualWithinAbsOrRel(c.got, c.want, 1e-9, 1e-12) {
					t.Fatalf("%s = %v, want %v", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestSummarizeSingleIsExact(t *testing.T) {
	for _, x := range []float64{0, -3.5, 1e-300, 123456789.125} {
		mean, std, err := MeanStdDev([]float64{x})
		if err != nil {
			t.Fatalf("MeanStdDev(%v): %v", x, err)
		}
		if mean != x || std != 0 {
			t.Fatalf("MeanStdDev([%v]) = (%v, %v), want (%v, 0)", x, mean, std, x)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("Summarize(nil) err = %v, want ErrEmptyInput", err)
	}
	if _, _, err := MeanStdDev([]float64{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("MeanStdDev([]) err = %v, want ErrEmptyInput", err)
	}
}

func TestSummarizeDoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	if _, err := Summarize(values); err != nil {
		t.Fatal(err)
	}
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input modified: %v", values)
	}
}

func TestSummarizeMatchesDefinition(t *testing.T) {
	values := []float64{10.1e6, 9.97e6, 10.02e6, 10.0e6, 9.99e6, 10.05e6}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sq / float64(len(values)))

	got, err := Summarize(values)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinRel(got.Mean, mean, 1e-12) || !scalar.EqualWithinRel(got.StdDev, std, 1e-9) {
		t.Fatalf("got (%v, %v), want (%v, %v)", got.Mean, got.StdDev, mean, std)
	}
}
