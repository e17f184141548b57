// Package metrics bundles the Prometheus collectors exposed by the
// automation engine. Exposition is left to the caller; the run command
// serves the registry over HTTP when a listen address is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for one engine instance.
type Metrics struct {
	Registry          *prometheus.Registry
	InteractionsTotal *prometheus.CounterVec
	LikesTotal        prometheus.Counter
	FollowsTotal      prometheus.Counter
	ScrapedTotal      prometheus.Counter
	ItemsHarvested    prometheus.Counter
	JobRetriesTotal   prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	interactions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "igpilot_interactions_total",
			Help: "Total interactions attempted, by source account and outcome.",
		},
		[]string{"source", "outcome"},
	)
	likes := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igpilot_likes_total",
			Help: "Total likes performed this process.",
		},
	)
	follows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igpilot_follows_total",
			Help: "Total follows performed this process.",
		},
	)
	scraped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igpilot_scraped_total",
			Help: "Total profiles scraped this process.",
		},
	)
	harvested := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igpilot_items_harvested_total",
			Help: "Total first-time items accepted while walking lists.",
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "igpilot_job_retries_total",
			Help: "Total job invocations retried after a device fault.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "igpilot_errors_total",
			Help: "Total errors observed, by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(interactions, likes, follows, scraped, harvested, retries, errorsTotal)

	return &Metrics{
		Registry:          registry,
		InteractionsTotal: interactions,
		LikesTotal:        likes,
		FollowsTotal:      follows,
		ScrapedTotal:      scraped,
		ItemsHarvested:    harvested,
		JobRetriesTotal:   retries,
		ErrorsTotal:       errorsTotal,
	}
}

// IncInteraction increments the interactions counter. All methods are
// nil-safe so callers can run without metrics wired.
func (m *Metrics) IncInteraction(source string, succeeded bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if succeeded {
		outcome = "succeeded"
	}
	m.InteractionsTotal.WithLabelValues(source, outcome).Inc()
}

// IncLike increments the likes counter.
func (m *Metrics) IncLike() {
	if m == nil {
		return
	}
	m.LikesTotal.Inc()
}

// IncFollow increments the follows counter.
func (m *Metrics) IncFollow() {
	if m == nil {
		return
	}
	m.FollowsTotal.Inc()
}

// IncScraped increments the scraped counter.
func (m *Metrics) IncScraped() {
	if m == nil {
		return
	}
	m.ScrapedTotal.Inc()
}

// IncHarvested increments the harvested items counter.
func (m *Metrics) IncHarvested() {
	if m == nil {
		return
	}
	m.ItemsHarvested.Inc()
}

// IncJobRetry increments the job retries counter.
func (m *Metrics) IncJobRetry() {
	if m == nil {
		return
	}
	m.JobRetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
