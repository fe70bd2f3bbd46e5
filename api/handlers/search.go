package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/quantraven93/court-tracker-api/config"
	"github.com/quantraven93/court-tracker-api/courts"
	"github.com/quantraven93/court-tracker-api/models"
)

// searchTimeout bounds a party-name search; the official portals can need a
// CAPTCHA solve each, so this is much longer than a database query timeout
const searchTimeout = 45 * time.Second

// Search exported for testing purposes
type Search struct {
	Resolver *courts.ResolutionService
}

// SearchHandler searches for cases by party name across the configured
// providers
func (s Search) SearchHandler(w http.ResponseWriter, r *http.Request) {
	query := models.SearchQuery{
		PartyName: r.URL.Query().Get("name"),
		Category:  models.CourtCategory(r.URL.Query().Get("category")),
		State:     r.URL.Query().Get("state"),
		Year:      r.URL.Query().Get("year"),
	}
	if query.PartyName == "" {
		config.ErrorStatus("name query param is required", http.StatusBadRequest, w, courts.ErrInvalidIdentifier)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), searchTimeout)
	defer cancel()

	results, err := s.Resolver.SearchByParty(ctx, query)
	if err != nil && len(results) == 0 {
		config.ErrorStatus("search failed", http.StatusBadGateway, w, err)
		return
	}

	if len(results) == 0 {
		results = []models.SearchResult{}
	}
	b, err := json.Marshal(map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
