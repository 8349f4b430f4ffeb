package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Campaign hub metrics collectors
var (
	// Rate Limiting

	RateLimitDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaignhub_ratelimit_decisions_total",
			Help: "Total number of rate limiter decisions",
		},
		[]string{"outcome"},
	)

	RateLimitSweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaignhub_ratelimit_sweeps_total",
			Help: "Total number of stale rate limit sweeps",
		},
		[]string{"result"},
	)

	RateLimitSweptRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "campaignhub_ratelimit_swept_records_total",
			Help: "Total number of rate limit records evicted by sweeps",
		},
	)

	// Authentication

	AuthFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaignhub_auth_failures_total",
			Help: "Total number of rejected bearer credentials",
		},
		[]string{"kind"},
	)

	// Lifecycle

	LifecycleTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campaignhub_lifecycle_transitions_total",
			Help: "Total number of lifecycle transition attempts",
		},
		[]string{"entity", "action", "outcome"},
	)

	// HTTP

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campaignhub_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "status"},
	)
)

// ObserveRateLimit records a limiter decision.
func ObserveRateLimit(res ratelimit.Result) {
	outcome := "allowed"
	if !res.Allowed {
		outcome = "denied"
	}
	RateLimitDecisionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSweep records a sweeper pass.
func ObserveSweep(removed int, err error) {
	if err != nil {
		RateLimitSweepsTotal.WithLabelValues("error").Inc()
		return
	}
	RateLimitSweepsTotal.WithLabelValues("ok").Inc()
	RateLimitSweptRecords.Add(float64(removed))
}

// ObserveAuthFailure records a rejected credential.
func ObserveAuthFailure(kind jwtx.Kind) {
	AuthFailuresTotal.WithLabelValues(kind.String()).Inc()
}

// ObserveTransition records a lifecycle attempt. outcome is "applied",
// "rejected" or "error".
func ObserveTransition(entity, action, outcome string) {
	LifecycleTransitionsTotal.WithLabelValues(entity, action, outcome).Inc()
}

// HTTPMiddleware times every request.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		HTTPRequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rw.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
