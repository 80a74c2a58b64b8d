package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TemplatesCreated counts templates added by seed, API or synthesis.
	TemplatesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hse_templates_created_total",
		Help: "Number of form templates created.",
	})

	// TemplatesDeleted counts template deletions (cascades included once).
	TemplatesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hse_templates_deleted_total",
		Help: "Number of form templates deleted.",
	})

	// SubmissionsCreated counts successfully validated submissions.
	SubmissionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hse_submissions_created_total",
		Help: "Number of form submissions persisted.",
	})

	// SubmissionsRejected counts submit attempts blocked by validation.
	SubmissionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hse_submissions_rejected_total",
		Help: "Number of submit attempts rejected by required-field validation.",
	})

	// SynthRequests counts synthesis calls by outcome (ok, error, rejected).
	SynthRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hse_synth_requests_total",
		Help: "Number of AI synthesis requests by outcome.",
	}, []string{"outcome"})

	// Exports counts CSV exports by scope (single, all).
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hse_exports_total",
		Help: "Number of CSV exports by scope.",
	}, []string{"scope"})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
