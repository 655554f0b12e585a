package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	OracleCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oracle_calls_total",
			Help: "External evaluator calls by question type and outcome",
		},
		[]string{"type", "outcome"},
	)
	OracleCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_call_duration_seconds",
			Help:    "External evaluator wait time in seconds, including abandoned calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2},
		},
		[]string{"type"},
	)
	OracleBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oracle_breaker_state",
			Help: "Circuit breaker state per breaker (0=closed, 1=open, 2=half-open)",
		},
		[]string{"breaker"},
	)

	// Application score distribution, percentage [0,100]
	ApplicationScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_score_percentage",
			Help:    "Distribution of computed application percentages",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	RecalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recalculation_applications_total",
			Help: "Applications processed by recalculation runs, by scope and result",
		},
		[]string{"scope", "result"},
	)
	RecalculationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recalculation_run_duration_seconds",
			Help:    "Duration of recalculation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"scope"},
	)
	RecalculationMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recalculation_messages_total",
			Help: "Recalculation messages by direction and result",
		},
		[]string{"direction", "result"},
	)
)

var initOnce sync.Once

// InitMetrics registers every collector with the default registry. Safe to
// call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(OracleCallsTotal)
		prometheus.MustRegister(OracleCallDuration)
		prometheus.MustRegister(OracleBreakerState)
		prometheus.MustRegister(ApplicationScoreHistogram)
		prometheus.MustRegister(RecalculationsTotal)
		prometheus.MustRegister(RecalculationDuration)
		prometheus.MustRegister(RecalculationMessagesTotal)
	})
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(dur)
	})
}

// ObserveOracleCall records one bounded oracle attempt.
func ObserveOracleCall(questionType, outcome string, d time.Duration) {
	OracleCallsTotal.WithLabelValues(questionType, outcome).Inc()
	OracleCallDuration.WithLabelValues(questionType).Observe(d.Seconds())
}

// RecordBreakerState publishes a breaker's current state.
func RecordBreakerState(name string, state BreakerState) {
	OracleBreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveApplicationScore records a computed application percentage.
func ObserveApplicationScore(percentage float64) {
	if percentage >= 0 && percentage <= 100 {
		ApplicationScoreHistogram.Observe(percentage)
	}
}

// ObserveRecalculation records the outcome of one recalculation run.
func ObserveRecalculation(scope string, updated, failed int, d time.Duration) {
	RecalculationsTotal.WithLabelValues(scope, "updated").Add(float64(updated))
	RecalculationsTotal.WithLabelValues(scope, "failed").Add(float64(failed))
	RecalculationDuration.WithLabelValues(scope).Observe(d.Seconds())
}

// RecalculationPublished counts messages handed to the broker.
func RecalculationPublished(ok bool) {
	RecalculationMessagesTotal.WithLabelValues("published", resultLabel(ok)).Inc()
}

// RecalculationConsumed counts messages handled by the worker.
func RecalculationConsumed(ok bool) {
	RecalculationMessagesTotal.WithLabelValues("consumed", resultLabel(ok)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
