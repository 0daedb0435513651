// Package metrics contains a Prometheus implementation of [domain.Metrics].
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
)

// Outcome label values of gateway calls.
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeError     = "error"
)

// Metrics implements [domain.Metrics].
type Metrics struct {
	namespace string
	reg       prometheus.Registerer

	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	staleResults    *prometheus.CounterVec
	decodeErrors    *prometheus.CounterVec
}

// NewMetrics registers the collectors and returns a new implementation of
// [domain.Metrics]. Collectors are registered in
// [prometheus.DefaultRegisterer] unless [WithRegisterer] is given.
func NewMetrics(opts ...Option) *Metrics {
	m := Metrics{
		namespace: "gefilter",
		reg:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&m)
	}
	factory := promauto.With(m.reg)

	m.gatewayRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "gateway_requests_total",
			Help:      "Total number of gateway calls",
		},
		[]string{"op", "outcome"},
	)
	m.gatewayDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Duration of gateway calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to 8s
		},
		[]string{"op"},
	)
	m.staleResults = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "stale_results_total",
			Help:      "Total number of filtering results discarded because a newer request was issued",
		},
		[]string{"view"},
	)
	m.decodeErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      "url_decode_errors_total",
			Help:      "Total number of URL parameters ignored because they could not be decoded",
		},
		[]string{"param"},
	)
	return &m
}

// ObserveGateway implements [domain.Metrics].
func (m *Metrics) ObserveGateway(op string, d time.Duration, err error) {
	m.gatewayRequests.WithLabelValues(op, outcome(err)).Inc()
	m.gatewayDuration.WithLabelValues(op).Observe(d.Seconds())
}

// StaleResult implements [domain.Metrics].
func (m *Metrics) StaleResult(view string) {
	m.staleResults.WithLabelValues(view).Inc()
}

// DecodeError implements [domain.Metrics].
func (m *Metrics) DecodeError(param string) {
	m.decodeErrors.WithLabelValues(param).Inc()
}

func outcome(err error) string {
	var errS *domain.ErrHTTPStatus
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &errS):
		return OutcomeHTTPError
	default:
		return OutcomeError
	}
}
