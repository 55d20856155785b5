package stats

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyInput is returned when summarising an empty sequence
var ErrEmptyInput = errors.New("cannot summarise an empty sequence")

// Summary holds population statistics of a sequence of estimates
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // Population standard deviation (divides by Count)
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes the mean, population standard deviation and range of
// values. The input is not modified.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptyInput
	}

	mean, std := stat.PopMeanStdDev(values, nil)

	return Summary{
		Count:  len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}, nil
}

// MeanStdDev returns only the mean and population standard deviation
func MeanStdDev(values []float64) (mean, stdDev float64, err error) {
	s, err := Summarize(values)
	if err != nil {
		return 0, 0, err
	}
	return s.Mean, s.StdDev, nil
}
