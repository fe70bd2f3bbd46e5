// Package docs Court Tracker API.
//
// Documentation of Court Tracker API.
//
//	Schemes: https
//	BasePath: /
//	Version: 1.0.0
//	Host: https://court-tracker-api.herokuapp.com
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs

import (
	"github.com/quantraven93/court-tracker-api/models"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/case/{case_id} cases caseByID
// Gets a single tracked case by ID.
// responses:
//   200: caseByIDResponse

// Shows a single tracked case by the given {ID}
// swagger:response caseByIDResponse
type caseByIDResponseWrapper struct {
	// in:body
	Body models.TrackedCase
}

// swagger:route GET /api/v1/cases/user/{user_id} cases casesByUserID
// Lists all cases tracked by a user.
// responses:
//   200: casesByUserIDResponse

// Shows every case tracked by the given user
// swagger:response casesByUserIDResponse
type casesByUserIDResponseWrapper struct {
	// in:body
	Body []models.TrackedCase
}

// swagger:route GET /api/v1/case/{case_id}/events cases eventsByCaseID
// Lists the change-event audit trail for a case.
// responses:
//   200: eventsByCaseIDResponse

// Shows the change events recorded for the given case, newest first
// swagger:response eventsByCaseIDResponse
type eventsByCaseIDResponseWrapper struct {
	// in:body
	Body []models.ChangeEvent
}

// swagger:route GET /api/v1/search search searchByParty
// Searches for cases by party name across the configured providers.
// responses:
//   200: searchResponse

// Shows the search results merged and deduplicated across providers
// swagger:response searchResponse
type searchResponseWrapper struct {
	// in:body
	Body []models.SearchResult
}

// swagger:route POST /api/v1/updates/run updates runUpdates
// Triggers one batch update run. Requires the X-Update-Secret header.
// responses:
//   200: runUpdatesResponse

// Shows the counters of the completed update run
// swagger:response runUpdatesResponse
type runUpdatesResponseWrapper struct {
	// in:body
	Body pipeline.RunResult
}
