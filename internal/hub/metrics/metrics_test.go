package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/campaignhub/internal/hub/metrics"
	"github.com/aussiebroadwan/campaignhub/pkg/jwtx"
	"github.com/aussiebroadwan/campaignhub/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	if m.Histogram != nil {
		return float64(m.GetHistogram().GetSampleCount())
	}
	return m.GetCounter().GetValue()
}

func TestObserveRateLimit(t *testing.T) {
	denied := metrics.RateLimitDecisionsTotal.WithLabelValues("denied")
	allowed := metrics.RateLimitDecisionsTotal.WithLabelValues("allowed")
	d0, a0 := value(t, denied), value(t, allowed)

	metrics.ObserveRateLimit(ratelimit.Result{Allowed: false})
	metrics.ObserveRateLimit(ratelimit.Result{Allowed: true})
	metrics.ObserveRateLimit(ratelimit.Result{Allowed: true})

	require.Equal(t, d0+1, value(t, denied))
	require.Equal(t, a0+2, value(t, allowed))
}

func TestObserveSweep(t *testing.T) {
	ok := metrics.RateLimitSweepsTotal.WithLabelValues("ok")
	failed := metrics.RateLimitSweepsTotal.WithLabelValues("error")
	ok0, failed0, swept0 := value(t, ok), value(t, failed), value(t, metrics.RateLimitSweptRecords)

	metrics.ObserveSweep(3, nil)
	metrics.ObserveSweep(0, errors.New("disk full"))

	require.Equal(t, ok0+1, value(t, ok))
	require.Equal(t, failed0+1, value(t, failed))
	require.Equal(t, swept0+3, value(t, metrics.RateLimitSweptRecords))
}

func TestObserveAuthFailureAndTransition(t *testing.T) {
	expired := metrics.AuthFailuresTotal.WithLabelValues("expired")
	before := value(t, expired)
	metrics.ObserveAuthFailure(jwtx.KindExpired)
	require.Equal(t, before+1, value(t, expired))

	rejected := metrics.LifecycleTransitionsTotal.WithLabelValues("campaign", "complete", "rejected")
	before = value(t, rejected)
	metrics.ObserveTransition("campaign", "complete", "rejected")
	require.Equal(t, before+1, value(t, rejected))
}

func TestHTTPMiddlewareRecordsStatus(t *testing.T) {
	h := metrics.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	hist := metrics.HTTPRequestDuration.WithLabelValues(http.MethodPatch, "202").(prometheus.Histogram)
	before := value(t, hist)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, before+1, value(t, hist))
}
