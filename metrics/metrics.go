package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Access record outcomes.
const (
	AccessRecorded = "recorded"
	AccessFailed   = "failed"
	AccessDisabled = "disabled"
)

// Metrics holds the counters for both pipelines on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	AccessRecords *prometheus.CounterVec
	Submissions   *prometheus.CounterVec
}

// New creates and registers all metrics
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AccessRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "site_access_records_total",
			Help: "Inbound requests seen by the access recorder, by outcome",
		}, []string{"outcome"}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "site_submissions_total",
			Help: "Contact form submissions handled, by response status code",
		}, []string{"status"}),
	}
}

// ObserveAccess counts one access record outcome. Safe on a nil receiver.
func (m *Metrics) ObserveAccess(outcome string) {
	if m == nil {
		return
	}
	m.AccessRecords.WithLabelValues(outcome).Inc()
}

// ObserveSubmission counts one submission by its HTTP status. Safe on a nil receiver.
func (m *Metrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
