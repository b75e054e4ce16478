// Package observability exposes the pipeline's operational metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks pipeline stage outcomes and latency. A nil *Metrics is
// valid and records nothing, so wiring stays optional in tests.
type Metrics struct {
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	backendCalls  prometheus.Counter
}

// New registers the pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		stageTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "questline",
			Name:      "pipeline_stage_total",
			Help:      "Pipeline stage completions by stage and status.",
		}, []string{"stage", "status"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "questline",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Wall-clock duration of each pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		backendCalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "questline",
			Name:      "backend_calls_total",
			Help:      "Completion calls issued to the generation backend.",
		}),
	}
}

// ObserveStage records one stage completion.
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stageTotal.WithLabelValues(stage, status).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveBackendCall records one adapter invocation.
func (m *Metrics) ObserveBackendCall() {
	if m == nil {
		return
	}
	m.backendCalls.Inc()
}
