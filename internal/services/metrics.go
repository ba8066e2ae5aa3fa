package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons for requests that never reach the provider.
const (
	ReasonInvalidBody   = "invalid_body"
	ReasonURLRequired   = "url_required"
	ReasonInvalidURL    = "invalid_url"
	ReasonAPIKeyMissing = "api_key_missing"
)

// Metrics holds the Prometheus collectors for URL analysis.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	analyses *prometheus.CounterVec
	rejected *prometheus.CounterVec
	upstream prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securelink",
			Name:      "analyses_total",
			Help:      "Completed URL analyses by outcome.",
		}, []string{"outcome"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "securelink",
			Name:      "rejected_requests_total",
			Help:      "Analysis requests rejected before calling the provider.",
		}, []string{"reason"}),
		upstream: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "securelink",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of chat-completion calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}),
	}
}

func (m *Metrics) Analysis(outcome Outcome) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveUpstream(d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.Observe(d.Seconds())
}
