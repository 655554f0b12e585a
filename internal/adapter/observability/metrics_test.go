package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddleware_Basic(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/metrics-sample", nil)
	mw := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))
	mw.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusNoContent, rec.Result().StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/metrics-sample", http.MethodGet, "No Content")))
}

func TestInitMetrics_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		InitMetrics()
		InitMetrics()
	})
}

func TestObserveHelpers(t *testing.T) {
	ObserveOracleCall("sample_type", "accepted", 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(OracleCallsTotal.WithLabelValues("sample_type", "accepted")))

	ObserveRecalculation("sample_scope", 3, 1, time.Second)
	assert.Equal(t, 3.0, testutil.ToFloat64(RecalculationsTotal.WithLabelValues("sample_scope", "updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(RecalculationsTotal.WithLabelValues("sample_scope", "failed")))

	ObserveApplicationScore(55)
	ObserveApplicationScore(150)
	RecalculationPublished(true)
	RecalculationConsumed(false)
	RecordBreakerState("sample", StateOpen)
	assert.Equal(t, 1.0, testutil.ToFloat64(OracleBreakerState.WithLabelValues("sample")))
}
