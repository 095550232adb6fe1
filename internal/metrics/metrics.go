// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records HTTP request metrics and the auth outcomes worth
// alerting on.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      prometheus.Histogram
	authFailures prometheus.Counter
	signIns      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with the given
// registry. A custom registry keeps the default Go collectors out of tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxdesk_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxdesk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxdesk_auth_failures_total",
			Help: "Requests rejected with 401.",
		}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxdesk_sign_ins_total",
			Help: "Successful sign-ins by method (password or google).",
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.authFailures,
		c.signIns,
	)

	return c
}

// RecordSignIn counts a successful sign-in by method.
func (c *Collector) RecordSignIn(method string) {
	c.signIns.WithLabelValues(method).Inc()
}

// Middleware records the count, status, and latency of every request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		c.requests.WithLabelValues(r.Method, strconv.Itoa(wrapped.status)).Inc()
		c.latency.Observe(time.Since(start).Seconds())
		if wrapped.status == http.StatusUnauthorized {
			c.authFailures.Inc()
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
