package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantraven93/court-tracker-api/config"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

// Updates exported for testing purposes
type Updates struct {
	Pipeline *pipeline.Pipeline
}

// RunUpdatesHandler triggers one synchronous batch update run. It is meant
// for an external cron caller and is guarded by the shared-secret
// middleware; the scheduler uses the same pipeline on its own timer.
func (u Updates) RunUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), u.Pipeline.Budget+10*time.Second)
	defer cancel()

	result, err := u.Pipeline.Run(ctx)
	if err != nil {
		config.ErrorStatus("update run failed", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Update run completed",
		"result":  result,
	})
}
