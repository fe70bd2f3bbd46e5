package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quantraven93/court-tracker-api/api"
	"github.com/quantraven93/court-tracker-api/config"
	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/models"
)

// Event exported for testing purposes
type Event struct {
	DB databases.ChangeEventDatabase
}

// EventsByCaseIDHandler returns the change-event audit trail for a case,
// newest first
func (e Event) EventsByCaseIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 50
	}
	limit64 := int64(Limit)
	Page := getPage(0, r)
	skip64 := int64(Page * Limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"changeEvent.caseID": caseID}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter["changeEvent.kind"] = kind
	}

	dbResp, err := e.DB.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Skip:  &skip64,
		Sort:  bson.M{"_id": -1},
	})
	if err != nil {
		config.ErrorStatus("failed to get change events", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.ChangeEvent{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
