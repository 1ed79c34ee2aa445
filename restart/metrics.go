// SPDX-License-Identifier: MIT

package restart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/mgmatch/gmatch"
)

// Outcome labels of RunsTotal.
const (
	OutcomeConverged = "converged"
	OutcomeExhausted = "exhausted"
	OutcomeFailed    = "failed"
)

// Metrics groups the restart collectors.
type Metrics struct {
	// RunsTotal counts finished runs by outcome.
	RunsTotal *prometheus.CounterVec
	// Iterations observes Frank-Wolfe iterations per run.
	Iterations prometheus.Histogram
	// StepsTotal counts loop steps by kind (interior, full, converged).
	StepsTotal *prometheus.CounterVec
	// Duration observes wall time per run in seconds.
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgmatch_runs_total",
			Help: "Finished matching runs by outcome",
		}, []string{"outcome"}),
		Iterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mgmatch_run_iterations",
			Help:    "Frank-Wolfe iterations per run",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		StepsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mgmatch_steps_total",
			Help: "Frank-Wolfe steps by kind",
		}, []string{"kind"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mgmatch_run_duration_seconds",
			Help:    "Matching run duration",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

// observe records one run; m may be nil.
func (m *Metrics) observe(res gmatch.Result, err error, seconds float64) {
	if m == nil {
		return
	}
	m.Duration.Observe(seconds)
	if err != nil {
		m.RunsTotal.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	outcome := OutcomeExhausted
	if res.Converged {
		outcome = OutcomeConverged
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.Iterations.Observe(float64(res.Iterations))
	for _, s := range res.Trace {
		m.StepsTotal.WithLabelValues(s.Kind.String()).Inc()
	}
}
