// Package metrics exposes Prometheus instruments for backend calls and inbound HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obserrors "github.com/airportmgmt/airport-web/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const namespace = "airport_web"

// Registry bundles the collectors registered by the application.
type Registry struct {
	reg *prometheus.Registry

	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	loginThrottled  prometheus.Counter
}

// NewRegistry creates a registry with process and Go runtime collectors plus
// the application instruments.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		backendCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Calls made to the REST backend",
		}, []string{"method", "route", "result", "error_class"}),
		backendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of calls made to the REST backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served",
		}, []string{"method", "pattern", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of requests served",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "pattern"}),
		loginThrottled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_throttled_total",
			Help:      "Login and registration attempts rejected by the rate limiter",
		}),
	}
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// BackendCall captures one backend round trip.
type BackendCall struct {
	Method   string
	Route    string
	Duration time.Duration
	Err      error
}

// ObserveBackendCall records a backend call. A nil registry is a no-op.
func (r *Registry) ObserveBackendCall(in BackendCall) {
	if r == nil {
		return
	}
	result, class := ResultSuccess, ""
	if in.Err != nil {
		result, class = ResultError, obserrors.Classify(in.Err)
	}
	r.backendCalls.WithLabelValues(in.Method, in.Route, result, class).Inc()
	r.backendDuration.WithLabelValues(in.Method, in.Route).Observe(in.Duration.Seconds())
}

// LoginThrottled counts a rejected login attempt. A nil registry is a no-op.
func (r *Registry) LoginThrottled() {
	if r == nil {
		return
	}
	r.loginThrottled.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Middleware records request counts and latency labelled by the matched mux pattern.
// Requests that matched no pattern are grouped under "unmatched".
func (r *Registry) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		pattern := req.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		r.httpRequests.WithLabelValues(req.Method, pattern, strconv.Itoa(rec.status)).Inc()
		r.httpDuration.WithLabelValues(req.Method, pattern).Observe(time.Since(start).Seconds())
	})
}
