package analysis

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/RyanBlaney/freqdetect/algorithms/stats"
	"github.com/RyanBlaney/freqdetect/config"
)

// MethodResult holds the outcome of one estimator over the whole batch
type MethodResult struct {
	Method    config.Method  `json:"method"`
	Bursts    int            `json:"bursts"`            // Bursts handed to the estimator
	Skipped   int            `json:"skipped"`           // Bursts without a defined estimate
	Estimates []float64      `json:"estimates"`         // Hz, in burst order, skipped bursts omitted
	Elapsed   time.Duration  `json:"elapsed"`           // Wall time of the estimation loop; with metrics it includes one clock read pair per burst
	Summary   *stats.Summary `json:"summary,omitempty"` // Nil when no estimate was produced
}

// AverageLoopTime is the elapsed time per burst
func (m *MethodResult) AverageLoopTime() time.Duration {
	if m.Bursts == 0 {
		return 0
	}
	return m.Elapsed / time.Duration(m.Bursts)
}

// Report is the result of one analysis run
type Report struct {
	RunID       string          `json:"run_id"`
	Input       string          `json:"input"`
	SampleRate  int             `json:"sample_rate"`
	BurstLength int             `json:"burst_length"`
	Bursts      int             `json:"bursts"`
	StartedAt   time.Time       `json:"started_at"`
	FinishedAt  time.Time       `json:"finished_at"`
	Methods     []*MethodResult `json:"methods"`
}

// Method returns the result for m, or nil if m was not run
func (r *Report) Method(m config.Method) *MethodResult {
	for _, res := range r.Methods {
		if res.Method == m {
			return res
		}
	}
	return nil
}

// WriteText prints the human-readable summary of every method:
//
//	Computing by zero crossing...
//	Average loop time: 0.01 ms
//	Average frequency: 10000000.00
//	Standard deviation of frequencies: 0.00
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for i, res := range r.Methods {
		if i > 0 {
			fmt.Fprintln(bw)
		}

		fmt.Fprintf(bw, "Computing by %s...\n", res.Method.Title())
		fmt.Fprintf(bw, "Average loop time: %.2f ms\n", float64(res.AverageLoopTime().Nanoseconds())/1e6)

		if res.Summary == nil {
			fmt.Fprintln(bw, "No frequencies computed.")
		} else {
			fmt.Fprintf(bw, "Average frequency: %.2f\n", res.Summary.Mean)
			fmt.Fprintf(bw, "Standard deviation of frequencies: %.2f\n", res.Summary.StdDev)
		}

		if res.Skipped > 0 {
			fmt.Fprintf(bw, "Skipped bursts: %d of %d\n", res.Skipped, res.Bursts)
		}
	}

	return bw.Flush()
}
