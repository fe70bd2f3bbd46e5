package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantraven93/court-tracker-api/api/handlers"
	"github.com/quantraven93/court-tracker-api/courts"
)

func TestSearchHandler_MissingName(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	w := httptest.NewRecorder()

	s := handlers.Search{Resolver: courts.NewResolutionService(nil, nil, nil, nil, false)}
	s.SearchHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name query param is required")
}

func TestSearchHandler_NoProvidersNoResults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?name=Ram+Kumar&category=high_court", nil)
	w := httptest.NewRecorder()

	s := handlers.Search{Resolver: courts.NewResolutionService(nil, nil, nil, nil, false)}
	s.SearchHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int             `json:"count"`
		Results json.RawMessage `json:"results"`
	}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, "[]", string(resp.Results))
}
