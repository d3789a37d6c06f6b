package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	testLogger, buf := logger.GetTestLogger(t)

	var traceID string
	var ctxLogger *slog.Logger
	handler := middleware.TraceMiddleware(testLogger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		ctxLogger = logger.FromContext(r.Context())
		ctxLogger.Info("inside handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	require.Len(t, traceID, 2*shared.TraceIDLength)
	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))
	assert.NotNil(t, ctxLogger)
	logger.AssertLogContains(t, buf, traceID)
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for range 2 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/accounts/abc", nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	var requests *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "http_requests_total" {
			requests = mf
		}
	}
	require.NotNil(t, requests)
	require.Len(t, requests.GetMetric(), 1, "one series for the route pattern")

	labels := map[string]string{}
	for _, lp := range requests.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, map[string]string{
		"method": "GET",
		"path":   "/api/accounts/{id}",
		"status": "404",
	}, labels)
	assert.Equal(t, float64(2), requests.GetMetric()[0].GetCounter().GetValue())
}
