package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes pipeline counters and stage timings.
type Metrics struct {
	jobsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics builds pipeline metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapscan",
			Name:      "jobs_total",
			Help:      "Analysis jobs by terminal status.",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mapscan",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.jobsTotal, m.stageDuration)
	}
	return m
}

// NopMetrics returns metrics that record but are registered nowhere.
func NopMetrics() *Metrics {
	return NewMetrics(nil)
}

// JobCompleted counts one job that reached the completed state.
func (m *Metrics) JobCompleted() {
	m.jobsTotal.WithLabelValues("completed").Inc()
}

// JobFailed counts one job that reached the failed state.
func (m *Metrics) JobFailed() {
	m.jobsTotal.WithLabelValues("failed").Inc()
}

// ObserveStage records the duration of one named stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// timeStage runs fn and records its duration under the stage label.
func (m *Metrics) timeStage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.ObserveStage(stage, time.Since(start))
	return err
}

// time runs a stage that cannot fail and records its duration.
func (m *Metrics) time(stage string, fn func()) {
	start := time.Now()
	fn()
	m.ObserveStage(stage, time.Since(start))
}
