package analysis

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/freqdetect/algorithms/stats"
	"github.com/RyanBlaney/freqdetect/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const metricsJob = "freqdetect"

// Metrics holds the Prometheus collectors of an analysis run (all with a
// 'method' label). They live in a private registry, so several runs in one
// process do not collide, and are exported once the batch is done.
type Metrics struct {
	registry *prometheus.Registry

	estimateDuration *prometheus.HistogramVec // Per-burst estimator time
	bursts           *prometheus.CounterVec   // Bursts handed to an estimator
	burstsSkipped    *prometheus.CounterVec   // Bursts without a defined estimate
	frequencyMean    *prometheus.GaugeVec     // Mean of the estimates
	frequencyStdDev  *prometheus.GaugeVec     // Population standard deviation of the estimates
	lastRun          prometheus.Gauge         // Unix time the last run finished
}

// NewMetrics creates the collectors in a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		estimateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "freqdetect_estimate_duration_seconds",
			Help:    "Time spent estimating the frequency of one burst",
			Buckets: prometheus.ExponentialBuckets(1e-6, 2, 16),
		}, []string{"method"}),
		bursts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "freqdetect_bursts_total",
			Help: "Bursts processed by each estimator",
		}, []string{"method"}),
		burstsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "freqdetect_bursts_skipped_total",
			Help: "Bursts for which an estimator produced no estimate",
		}, []string{"method"}),
		frequencyMean: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freqdetect_frequency_mean_hz",
			Help: "Mean estimated frequency of the last run",
		}, []string{"method"}),
		frequencyStdDev: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "freqdetect_frequency_stddev_hz",
			Help: "Population standard deviation of the estimated frequencies of the last run",
		}, []string{"method"}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "freqdetect_last_run_timestamp_seconds",
			Help: "Unix time the last analysis run finished",
		}),
	}
}

// Registry exposes the collectors for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeBurst(method config.Method, d time.Duration, skipped bool) {
	label := string(method)
	m.estimateDuration.WithLabelValues(label).Observe(d.Seconds())
	m.bursts.WithLabelValues(label).Inc()
	if skipped {
		m.burstsSkipped.WithLabelValues(label).Inc()
	}
}

func (m *Metrics) observeSummary(method config.Method, s stats.Summary) {
	label := string(method)
	m.frequencyMean.WithLabelValues(label).Set(s.Mean)
	m.frequencyStdDev.WithLabelValues(label).Set(s.StdDev)
}

func (m *Metrics) observeRunEnd(t time.Time) {
	m.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes the metrics in the text exposition format for the
// node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Push sends the metrics to a Prometheus Pushgateway, grouped by run ID
func (m *Metrics) Push(url, runID string) error {
	err := push.New(url, metricsJob).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		Push()
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
