package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_RecordsRoute(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/abc123", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	routes, recent := MetricsSummary()

	var found *RouteMetrics
	for i := range routes {
		if routes[i].Path == "/api/v1/case/abc123" && routes[i].Method == http.MethodGet {
			found = &routes[i]
		}
	}
	assert.NotNil(t, found)
	assert.True(t, found.Count >= 1)
	assert.True(t, found.ErrorCount >= 1)
	assert.NotEmpty(t, recent)
	last := recent[len(recent)-1]
	assert.Equal(t, http.StatusTeapot, last.Status)
	assert.NotEmpty(t, last.RequestID)
}

func TestMetricsMiddleware_SkipsProbeRoutes(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	routes, _ := MetricsSummary()
	for _, rm := range routes {
		assert.NotEqual(t, "/health", rm.Path)
	}
}

func TestRouteMetricsAvgMillis(t *testing.T) {
	rm := RouteMetrics{Count: 4, TotalTime: 2 * time.Second}
	assert.Equal(t, int64(500), rm.AvgMillis())

	assert.Equal(t, int64(0), RouteMetrics{}.AvgMillis())
}
