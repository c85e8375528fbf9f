// Package metrics defines Prometheus metrics for the rotation sidecar.
//
// Metric naming follows Prometheus conventions:
//   - parselord_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every sidecar metric. main serves it with promhttp.
var Registry = prometheus.NewRegistry()

var (
	// TicksTotal counts decision ticks by job and outcome reason.
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parselord_ticks_total",
			Help: "Total decision ticks by job and reason.",
		},
		[]string{"job", "reason"},
	)

	// DecisionDurationSeconds is a histogram of time spent deciding one tick.
	DecisionDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parselord_decision_duration_seconds",
			Help:    "Time spent choosing the action for one tick.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"job"},
	)

	// FaultsTotal counts panics caught at the job logic fault boundary.
	FaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parselord_faults_total",
			Help: "Total job logic panics recovered by the orchestrator.",
		},
		[]string{"job"},
	)

	// FallbacksTotal counts diagnostic fallback substitutions.
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parselord_fallbacks_total",
			Help: "Total diagnostic fallback actions issued.",
		},
		[]string{"job"},
	)

	// ActionsSentTotal counts actions handed to the host, by whether the send succeeded.
	ActionsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parselord_actions_sent_total",
			Help: "Total actions sent to the host.",
		},
		[]string{"job", "result"},
	)

	// ConfigReloadsTotal counts config reloads triggered by file changes.
	ConfigReloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parselord_config_reloads_total",
			Help: "Total config reloads picked up from disk.",
		},
	)

	// ActiveSessions is the number of connected hosts.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parselord_active_sessions",
			Help: "Number of host connections currently open.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TicksTotal,
		DecisionDurationSeconds,
		FaultsTotal,
		FallbacksTotal,
		ActionsSentTotal,
		ConfigReloadsTotal,
		ActiveSessions,
	)
}

func jobLabel(job string) string {
	if job == "" {
		return "none"
	}
	return job
}

// RecordTick records the outcome and duration of one decision tick. Ticks
// that stop before a job is resolved are labelled job="none".
func RecordTick(job, reason string, d time.Duration) {
	job = jobLabel(job)
	TicksTotal.WithLabelValues(job, reason).Inc()
	DecisionDurationSeconds.WithLabelValues(job).Observe(d.Seconds())
}

// RecordFault records one recovered job logic panic.
func RecordFault(job string) {
	FaultsTotal.WithLabelValues(jobLabel(job)).Inc()
}

func RecordFallback(job string) {
	FallbacksTotal.WithLabelValues(jobLabel(job)).Inc()
}

// RecordActionSent records one action handed to the host.
func RecordActionSent(job string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	ActionsSentTotal.WithLabelValues(jobLabel(job), result).Inc()
}

func RecordConfigReload() {
	ConfigReloadsTotal.Inc()
}
