package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation module.
type Metrics struct {
	// Collaborator call latencies by boundary
	CollaboratorLatency *prometheus.HistogramVec

	// Completed runs by terminal status
	RunOutcome *prometheus.CounterVec

	// Issues produced by category and severity
	IssuesFound *prometheus.CounterVec

	// Full pipeline latency per run
	RunLatency prometheus.Histogram
}

// New creates a Metrics instance with all validation module metrics registered.
func New() *Metrics {
	return &Metrics{
		CollaboratorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fairworkly_validation_collaborator_duration_seconds",
			Help:    "Duration of collaborator calls by boundary",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"collaborator"}), // "file_store", "parser", "directory", "persistence"

		RunOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fairworkly_validation_runs_total",
			Help: "Total completed validation runs by status",
		}, []string{"status"}),

		IssuesFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fairworkly_validation_issues_total",
			Help: "Total compliance issues produced by category and severity",
		}, []string{"category", "severity"}),

		RunLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fairworkly_validation_run_duration_seconds",
			Help:    "Duration of a full validation run including persistence",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveCollaborator records the duration of one collaborator call.
func (m *Metrics) ObserveCollaborator(name string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(name).Observe(d.Seconds())
	}
}

// IncrementRun records a completed run.
func (m *Metrics) IncrementRun(status string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementIssue records one produced issue.
func (m *Metrics) IncrementIssue(category string, severity string) {
	if m != nil {
		m.IssuesFound.WithLabelValues(category, severity).Inc()
	}
}

// ObserveRun records the total pipeline duration.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m != nil {
		m.RunLatency.Observe(d.Seconds())
	}
}
