package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/quantraven93/court-tracker-api/api"
	"github.com/quantraven93/court-tracker-api/config"
)

// MetricsHandler returns per-route request metrics and recent traces
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	routes, recent := api.MetricsSummary()

	formatted := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		formatted[i] = map[string]interface{}{
			"method":      route.Method,
			"path":        route.Path,
			"count":       route.Count,
			"errorCount":  route.ErrorCount,
			"avgTimeMs":   route.AvgMillis(),
			"maxTimeMs":   route.MaxTime.Milliseconds(),
			"lastRequest": route.LastRequest,
		}
	}

	b, err := json.Marshal(map[string]interface{}{
		"routes": formatted,
		"recent": recent,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
