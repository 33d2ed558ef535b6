// Package metrics exposes Prometheus metrics for the moragents client.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by the client. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	BackendRequests        *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	CredentialSyncs        *prometheus.CounterVec
	MessagesRendered       *prometheus.CounterVec
	SuggestionsSelected    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BackendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moragents_backend_requests_total",
				Help: "Total backend requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		BackendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moragents_backend_request_duration_seconds",
				Help:    "Backend request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		CredentialSyncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moragents_credential_sync_total",
				Help: "Credential sync attempts by result",
			},
			[]string{"result"},
		),
		MessagesRendered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moragents_messages_rendered_total",
				Help: "Messages rendered by content kind",
			},
			[]string{"kind"},
		),
		SuggestionsSelected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moragents_suggestions_selected_total",
				Help: "Prefilled suggestions selected by agent",
			},
			[]string{"agent"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.BackendRequests,
			m.BackendRequestDuration,
			m.CredentialSyncs,
			m.MessagesRendered,
			m.SuggestionsSelected,
		)
	}

	return m
}

// RecordBackendRequest records one backend call.
func (m *Metrics) RecordBackendRequest(endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BackendRequests.WithLabelValues(endpoint, status).Inc()
	m.BackendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCredentialSync records the outcome of pushing credentials.
func (m *Metrics) RecordCredentialSync(result string) {
	if m == nil {
		return
	}
	m.CredentialSyncs.WithLabelValues(result).Inc()
}

// RecordRender records one message render.
func (m *Metrics) RecordRender(kind string) {
	if m == nil {
		return
	}
	m.MessagesRendered.WithLabelValues(kind).Inc()
}

// RecordSuggestion records a selected prefilled example.
func (m *Metrics) RecordSuggestion(agent string) {
	if m == nil {
		return
	}
	m.SuggestionsSelected.WithLabelValues(agent).Inc()
}
