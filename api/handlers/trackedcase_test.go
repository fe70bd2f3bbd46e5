package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quantraven93/court-tracker-api/api/handlers"
	"github.com/quantraven93/court-tracker-api/databases/mocks"
	"github.com/quantraven93/court-tracker-api/models"
)

var errNotFound = errors.New("mongo: no documents in result")

func sampleTrackedCase() *models.TrackedCase {
	return &models.TrackedCase{
		ID: primitive.NewObjectID(),
		Details: models.TrackedCaseDetails{
			UserID:     primitive.NewObjectID().Hex(),
			Category:   models.HighCourt,
			CaseType:   "CWP",
			CaseNumber: "8821",
			CaseYear:   "2023",
			Title:      "Mohan Lal vs State of Rajasthan",
			Status:     "Pending",
			Active:     true,
		},
		Version: 1,
	}
}

func TestCaseByIDHandler_InvalidHex(t *testing.T) {
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/not-a-hex", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": "not-a-hex"})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CaseByIDHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to get objectID from Hex")
}

func TestCaseByIDHandler_Found(t *testing.T) {
	trackedCase := sampleTrackedCase()
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("FindOne", mock.Anything, bson.M{"_id": trackedCase.ID}).Return(trackedCase, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/"+trackedCase.ID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": trackedCase.ID.Hex()})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CaseByIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.TrackedCase
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, trackedCase.ID, got.ID)
	assert.Equal(t, "Mohan Lal vs State of Rajasthan", got.Details.Title)
}

func TestCaseByIDHandler_NotFound(t *testing.T) {
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("FindOne", mock.Anything, mock.Anything).Return(nil, errNotFound)

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": id})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CaseByIDHandler(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "failed to get tracked case by ID")
}

func TestCreateCaseHandler_IncompleteIdentifier(t *testing.T) {
	body := `{"userID": "abc", "category": "high_court", "caseNumber": "8821"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", strings.NewReader(body))
	w := httptest.NewRecorder()

	c := handlers.Case{DB: &mocks.TrackedCaseDatabase{}}
	c.CreateCaseHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "case identifier is incomplete")
}

func TestCreateCaseHandler_MissingUserID(t *testing.T) {
	body := `{"category": "high_court", "caseType": "CWP", "caseNumber": "8821", "caseYear": "2023"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", strings.NewReader(body))
	w := httptest.NewRecorder()

	c := handlers.Case{DB: &mocks.TrackedCaseDatabase{}}
	c.CreateCaseHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "userID is required")
}

func TestCreateCaseHandler_Created(t *testing.T) {
	var inserted models.TrackedCase
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(doc interface{}) bool {
		trackedCase, ok := doc.(models.TrackedCase)
		if ok {
			inserted = trackedCase
		}
		return ok
	})).Return(nil, nil)

	body := `{"userID": "user-1", "category": "high_court", "caseType": "CWP", "caseNumber": "8821", "caseYear": "2023"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", strings.NewReader(body))
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CreateCaseHandler(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, inserted.Details.Active)
	assert.Equal(t, "CWP", inserted.Details.CaseType)
	// unresolved at registration: status baselines to the sentinel so the
	// first update cycle does not report a status change
	assert.Equal(t, models.StatusUnknown, inserted.Details.Status)
	assert.NotZero(t, inserted.Details.CreatedAt)

	var resp map[string]interface{}
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["resolved"])
	assert.Equal(t, inserted.ID.Hex(), resp["id"])
}

func TestCreateCaseHandler_InsertFailure(t *testing.T) {
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("InsertOne", mock.Anything, mock.Anything).Return(nil, errors.New("write failed"))

	body := `{"userID": "user-1", "cnr": "RJJD010012342023"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", strings.NewReader(body))
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CreateCaseHandler(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to create tracked case")
}

func TestCasesByUserIDHandler(t *testing.T) {
	trackedCase := sampleTrackedCase()
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("Find", mock.Anything,
		bson.M{"trackedCase.userID": trackedCase.Details.UserID},
		mock.Anything,
	).Return([]models.TrackedCase{*trackedCase}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/user/"+trackedCase.Details.UserID, nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": trackedCase.Details.UserID})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CasesByUserIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.TrackedCase
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, trackedCase.ID, got[0].ID)
}

func TestCasesByUserIDHandler_ActiveFilter(t *testing.T) {
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("Find", mock.Anything,
		bson.M{"trackedCase.userID": "user-1", "trackedCase.active": true},
		mock.Anything,
	).Return([]models.TrackedCase{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases/user/user-1?active=true", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.CasesByUserIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	mockCaseDB.AssertExpectations(t)
}

func TestUpdateCaseHandler_OnlyProvidedFieldsAreSet(t *testing.T) {
	trackedCase := sampleTrackedCase()
	var capturedSet bson.M
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("UpdateOne", mock.Anything, bson.M{"_id": trackedCase.ID},
		mock.MatchedBy(func(update interface{}) bool {
			u, ok := update.(bson.M)
			if !ok {
				return false
			}
			capturedSet, ok = u["$set"].(bson.M)
			return ok
		}),
	).Return(nil)

	body := `{"active": false, "notes": "watch for the appeal"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/case/"+trackedCase.ID.Hex(), strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"case_id": trackedCase.ID.Hex()})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.UpdateCaseHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, capturedSet["trackedCase.active"])
	assert.Equal(t, "watch for the appeal", capturedSet["trackedCase.notes"])
	_, hasTags := capturedSet["trackedCase.tags"]
	assert.False(t, hasTags)
	_, hasUpdatedAt := capturedSet["trackedCase.updatedAt"]
	assert.True(t, hasUpdatedAt)
}

func TestDeleteCaseHandler(t *testing.T) {
	trackedCase := sampleTrackedCase()
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("DeleteOne", mock.Anything, bson.M{"_id": trackedCase.ID}).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/case/"+trackedCase.ID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": trackedCase.ID.Hex()})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.DeleteCaseHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Case deleted successfully")
	mockCaseDB.AssertExpectations(t)
}

// context cancellation must not leak between requests through the shared
// query timeout helper
func TestDeleteCaseHandler_ContextIsScoped(t *testing.T) {
	trackedCase := sampleTrackedCase()
	var mockCaseDB = &mocks.TrackedCaseDatabase{}
	mockCaseDB.On("DeleteOne", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline
	}), mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/case/"+trackedCase.ID.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": trackedCase.ID.Hex()})
	w := httptest.NewRecorder()

	c := handlers.Case{DB: mockCaseDB}
	c.DeleteCaseHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockCaseDB.AssertExpectations(t)
}
