package httpserver

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/applicant-scorer/internal/adapter/observability"
)

const requestIDHeader = "X-Request-Id"

// timeoutBody is the error envelope served when a scoring request overruns
// its deadline; http.TimeoutHandler only accepts a fixed body.
const timeoutBody = `{"error":{"code":"TIMEOUT","message":"scoring request timed out","details":null}}`

// Recoverer converts a handler panic into the INTERNAL error envelope.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					writeError(w, r, fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, rec), nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestID keeps a well-formed X-Request-Id from the caller and mints a ULID
// otherwise, then attaches a logger tagged with the request and trace ids.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !ValidateID("request_id", reqID).Valid {
				reqID = newRequestID()
				r.Header.Set(requestIDHeader, reqID)
			}
			sc := trace.SpanContextFromContext(r.Context())
			lg := slog.Default().With(
				slog.String("request_id", reqID),
				slog.String("trace_id", sc.TraceID().String()),
				slog.String("span_id", sc.SpanID().String()),
			)
			ctx := observability.ContextWithRequestID(observability.ContextWithLogger(r.Context(), lg), reqID)
			w.Header().Set(requestIDHeader, reqID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestTimeout bounds a whole request, ranking fan-out included, and
// answers 503 with a TIMEOUT envelope once d elapses.
func RequestTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, timeoutBody)
	}
}

// SecurityHeaders locks the JSON API out of framing, sniffing and referrers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'none'")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// LoggerFrom returns the request-scoped logger, or the default logger.
func LoggerFrom(r *http.Request) *slog.Logger {
	return observability.LoggerFromContext(r.Context())
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // ULID entropy, not a secret.
)

func newRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

// AccessLog emits one http_access line per request. The route label matches
// the HTTP metrics, and resource_id carries the application or position id.
func AccessLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route, resourceID := r.URL.Path, ""
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
				resourceID = rc.URLParam("id")
			}
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("route", route),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			}
			if resourceID != "" {
				attrs = append(attrs, slog.String("resource_id", resourceID))
			}
			LoggerFrom(r).LogAttrs(r.Context(), accessLevel(ww.Status()), "http_access", attrs...)
		})
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
