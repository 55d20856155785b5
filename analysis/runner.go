// Package analysis runs the frequency estimators over a batch of bursts and
// summarises their results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RyanBlaney/freqdetect/algorithms/spectral"
	"github.com/RyanBlaney/freqdetect/algorithms/stats"
	"github.com/RyanBlaney/freqdetect/algorithms/temporal"
	"github.com/RyanBlaney/freqdetect/config"
	"github.com/RyanBlaney/freqdetect/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrBurstLength is returned by Run when a burst does not have the
// configured number of samples
var ErrBurstLength = errors.New("burst length mismatch")

// estimateFunc is one estimator instance bound to its scratch buffers
type estimateFunc func(samples []int, sampleRate int) (float64, error)

// Option configures a Runner
type Option func(*Runner)

// WithMetrics records per-burst timings and the summaries in m
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger replaces the component logger
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner estimates the frequency of every burst with each configured method
type Runner struct {
	config  *config.Config
	metrics *Metrics
	logger  logging.Logger
	now     func() time.Time
}

// NewRunner creates a runner for a validated configuration
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "analysis_runner",
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run estimates every burst with each configured method, in configuration
// order. Bursts without a defined estimate (too few zero crossings) are
// counted as skipped. Cancelling ctx stops the run between bursts.
func (r *Runner) Run(ctx context.Context, bursts [][]int) (*Report, error) {
	for i, b := range bursts {
		if len(b) != r.config.BurstLength {
			return nil, fmt.Errorf("%w: burst %d has %d samples, want %d",
				ErrBurstLength, i, len(b), r.config.BurstLength)
		}
	}

	report := &Report{
		RunID:       uuid.NewString(),
		Input:       r.config.Input,
		SampleRate:  r.config.SampleRate,
		BurstLength: r.config.BurstLength,
		Bursts:      len(bursts),
		StartedAt:   r.now(),
	}

	ctx = logging.ContextWithFields(ctx, logging.Fields{"run_id": report.RunID})
	logger := r.logger.WithContext(ctx)
	logger.Debug("Starting analysis", logging.Fields{
		"bursts":  len(bursts),
		"methods": len(r.config.Methods),
		"workers": r.config.Workers,
	})

	for _, method := range r.config.Methods {
		result, err := r.runMethod(ctx, method, bursts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		report.Methods = append(report.Methods, result)

		logger.Debug("Method finished", logging.Fields{
			"method":     string(method),
			"estimates":  len(result.Estimates),
			"skipped":    result.Skipped,
			"elapsed_ms": float64(result.Elapsed.Microseconds()) / 1000,
		})
	}

	report.FinishedAt = r.now()
	if r.metrics != nil {
		r.metrics.observeRunEnd(report.FinishedAt)
	}

	return report, nil
}

func (r *Runner) runMethod(ctx context.Context, method config.Method, bursts [][]int) (*MethodResult, error) {
	workers := min(r.config.Workers, len(bursts))
	if workers < 1 {
		workers = 1
	}

	estimators := make([]estimateFunc, workers)
	for w := range estimators {
		est, err := r.newEstimator(method)
		if err != nil {
			return nil, err
		}
		estimators[w] = est
	}

	out := newBatchResults(len(bursts), r.metrics != nil)

	start := time.Now()
	var err error
	if workers == 1 {
		err = r.estimateRange(ctx, estimators[0], bursts, 0, out)
	} else {
		err = r.estimateParallel(ctx, estimators, bursts, out)
	}
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	result := &MethodResult{
		Method:    method,
		Bursts:    len(bursts),
		Estimates: make([]float64, 0, len(bursts)),
		Elapsed:   elapsed,
	}
	for i, ok := range out.defined {
		if r.metrics != nil {
			r.metrics.observeBurst(method, out.durations[i], !ok)
		}
		if !ok {
			result.Skipped++
			continue
		}
		result.Estimates = append(result.Estimates, out.estimates[i])
	}

	if len(result.Estimates) > 0 {
		summary, err := stats.Summarize(result.Estimates)
		if err != nil {
			return nil, err
		}
		result.Summary = &summary
		if r.metrics != nil {
			r.metrics.observeSummary(method, summary)
		}
	}

	return result, nil
}

// batchResults holds per-burst outcomes indexed by burst. Workers write
// disjoint ranges.
type batchResults struct {
	estimates []float64
	defined   []bool
	durations []time.Duration // nil unless metrics are recorded
}

func newBatchResults(n int, timed bool) *batchResults {
	b := &batchResults{
		estimates: make([]float64, n),
		defined:   make([]bool, n),
	}
	if timed {
		b.durations = make([]time.Duration, n)
	}
	return b
}

// estimateParallel splits bursts into contiguous chunks, one per estimator
func (r *Runner) estimateParallel(ctx context.Context, estimators []estimateFunc, bursts [][]int, out *batchResults) error {
	g, gctx := errgroup.WithContext(ctx)

	chunk := (len(bursts) + len(estimators) - 1) / len(estimators)
	for w, est := range estimators {
		lo := w * chunk
		if lo >= len(bursts) {
			break
		}
		hi := min(lo+chunk, len(bursts))
		est := est

		g.Go(func() error {
			return r.estimateRange(gctx, est, bursts[lo:hi], lo, out)
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// estimateRange estimates bursts, writing result i at index offset+i of out.
// Per-burst durations are only stored here; they reach Prometheus after the
// timed loop.
func (r *Runner) estimateRange(ctx context.Context, est estimateFunc, bursts [][]int, offset int, out *batchResults) error {
	for i, samples := range bursts {
		if err := ctx.Err(); err != nil {
			return err
		}

		var burstStart time.Time
		if out.durations != nil {
			burstStart = time.Now()
		}

		freq, err := est(samples, r.config.SampleRate)
		skipped := errors.Is(err, temporal.ErrInsufficientCrossings)
		if err != nil && !skipped {
			return fmt.Errorf("burst %d: %w", offset+i, err)
		}

		if out.durations != nil {
			out.durations[offset+i] = time.Since(burstStart)
		}

		if !skipped {
			out.estimates[offset+i] = freq
			out.defined[offset+i] = true
		}
	}
	return nil
}

func (r *Runner) newEstimator(method config.Method) (estimateFunc, error) {
	switch method {
	case config.MethodFFT:
		t, err := spectral.NewTransform(r.config.Transform, r.config.BurstLength)
		if err != nil {
			return nil, err
		}
		est := spectral.NewEstimatorWithTransform(t)
		return func(samples []int, sampleRate int) (float64, error) {
			return est.Estimate(samples, sampleRate), nil
		}, nil
	case config.MethodZeroCrossing:
		return temporal.NewZeroCrossingEstimator(r.config.BurstLength).Estimate, nil
	default:
		return nil, fmt.Errorf("unknown method %q", method)
	}
}
