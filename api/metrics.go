package api

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
}

// RouteMetrics aggregates metrics for a method+path pair
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"-"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

const maxRecentTraces = 200

type metricsCollector struct {
	mu     sync.Mutex
	routes map[string]*RouteMetrics
	recent []RequestTrace
}

var collector = &metricsCollector{routes: map[string]*RouteMetrics{}}

func (c *metricsCollector) record(trace RequestTrace) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := trace.Method + " " + trace.Path
	rm, ok := c.routes[key]
	if !ok {
		rm = &RouteMetrics{Method: trace.Method, Path: trace.Path}
		c.routes[key] = rm
	}
	rm.Count++
	if trace.Status >= 400 {
		rm.ErrorCount++
	}
	rm.TotalTime += trace.Duration
	if trace.Duration > rm.MaxTime {
		rm.MaxTime = trace.Duration
	}
	rm.LastRequest = trace.StartTime

	c.recent = append(c.recent, trace)
	if len(c.recent) > maxRecentTraces {
		c.recent = c.recent[len(c.recent)-maxRecentTraces:]
	}
}

// MetricsSummary returns per-route aggregates sorted by request count, plus
// the most recent traces
func MetricsSummary() (routes []RouteMetrics, recent []RequestTrace) {
	collector.mu.Lock()
	defer collector.mu.Unlock()

	for _, rm := range collector.routes {
		routes = append(routes, *rm)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Count > routes[j].Count })
	recent = append(recent, collector.recent...)
	return routes, recent
}

// AvgMillis returns the mean request duration in milliseconds
func (r RouteMetrics) AvgMillis() int64 {
	if r.Count == 0 {
		return 0
	}
	return (r.TotalTime / time.Duration(r.Count)).Milliseconds()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware tracks request timing per route
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		// skip the metrics endpoints themselves and the health probe
		if path == "/api/v1/metrics" || path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		collector.record(RequestTrace{
			RequestID: uuid.New().String(),
			Method:    r.Method,
			Path:      path,
			Status:    rec.status,
			StartTime: start,
			Duration:  elapsed,
		})

		if elapsed > 5*time.Second {
			zap.S().Warnw("slow request", "method", r.Method, "path", path, "duration", elapsed.String())
		}
	})
}
