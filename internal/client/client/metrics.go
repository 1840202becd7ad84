package client

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the API client collectors.
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec   // Requests by route and outcome
	RequestDurationSeconds *prometheus.HistogramVec // Round-trip latency by route
	SessionInvalidations   prometheus.Counter       // 401 responses seen
}

// NewMetrics registers the collectors with reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "legal_saarthi_client_requests_total",
			Help: "Total number of backend requests by route and outcome",
		}, []string{"method", "route", "outcome"}),

		RequestDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legal_saarthi_client_request_duration_seconds",
			Help:    "Duration of backend requests by route",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"method", "route"}),

		SessionInvalidations: f.NewCounter(prometheus.CounterOpts{
			Name: "legal_saarthi_client_session_invalidations_total",
			Help: "Total number of 401 responses that invalidated the session",
		}),
	}
}

// outcome is the status code for answered requests, "timeout" or "unavailable" otherwise.
func outcome(resp *Response, err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case resp != nil:
		return strconv.Itoa(resp.StatusCode)
	case err != nil:
		return "error"
	default:
		return "ok"
	}
}

func (m *Metrics) interceptor(route func(*http.Request) string) Interceptor {
	return func(r *http.Request, next Invoker) (*Response, error) {
		start := time.Now()
		resp, err := next(r)

		rt := route(r)
		m.RequestDurationSeconds.WithLabelValues(r.Method, rt).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(r.Method, rt, outcome(resp, err)).Inc()
		if errors.Is(err, ErrUnauthorized) {
			m.SessionInvalidations.Inc()
		}
		return resp, err
	}
}
