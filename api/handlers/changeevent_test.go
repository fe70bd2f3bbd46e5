package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func sampleEvent(caseID string, kind models.ChangeKind) models.ChangeEvent {
	return models.ChangeEvent{
		ID: primitive.NewObjectID(),
		Details: models.ChangeEventDetails{
			CaseID:   caseID,
			UserID:   primitive.NewObjectID().Hex(),
			Kind:     kind,
			Field:    "status",
			OldValue: "Pending",
			NewValue: "Disposed",
		},
		Version: 1,
	}
}

func TestEventsByCaseIDHandler(t *testing.T) {
	caseID := primitive.NewObjectID().Hex()
	events := []models.ChangeEvent{sampleEvent(caseID, models.StatusChange)}

	var mockEventDB = &mocks.ChangeEventDatabase{}
	mockEventDB.On("Find", mock.Anything,
		bson.M{"changeEvent.caseID": caseID},
		mock.Anything,
	).Return(events, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/"+caseID+"/events", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID})
	w := httptest.NewRecorder()

	e := handlers.Event{DB: mockEventDB}
	e.EventsByCaseIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.ChangeEvent
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, models.StatusChange, got[0].Details.Kind)
	assert.Equal(t, caseID, got[0].Details.CaseID)
}

func TestEventsByCaseIDHandler_KindFilter(t *testing.T) {
	caseID := primitive.NewObjectID().Hex()

	var mockEventDB = &mocks.ChangeEventDatabase{}
	mockEventDB.On("Find", mock.Anything,
		bson.M{"changeEvent.caseID": caseID, "changeEvent.kind": "new_order"},
		mock.Anything,
	).Return([]models.ChangeEvent{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/"+caseID+"/events?kind=new_order", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID})
	w := httptest.NewRecorder()

	e := handlers.Event{DB: mockEventDB}
	e.EventsByCaseIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	mockEventDB.AssertExpectations(t)
}

func TestEventsByCaseIDHandler_EmptyTrailIsEmptyArray(t *testing.T) {
	caseID := primitive.NewObjectID().Hex()

	var mockEventDB = &mocks.ChangeEventDatabase{}
	mockEventDB.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/case/"+caseID+"/events", nil)
	req = mux.SetURLVars(req, map[string]string{"case_id": caseID})
	w := httptest.NewRecorder()

	e := handlers.Event{DB: mockEventDB}
	e.EventsByCaseIDHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
