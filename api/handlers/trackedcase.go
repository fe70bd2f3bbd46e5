package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/quantraven93/court-tracker-api/api"
	"github.com/quantraven93/court-tracker-api/config"
	"github.com/quantraven93/court-tracker-api/courts"
	"github.com/quantraven93/court-tracker-api/databases"
	"github.com/quantraven93/court-tracker-api/models"
	"github.com/quantraven93/court-tracker-api/pipeline"
)

// Case exported for testing purposes
type Case struct {
	DB       databases.TrackedCaseDatabase
	EventDB  databases.ChangeEventDatabase
	Resolver *courts.ResolutionService
}

// CreateCaseHandler registers a case for tracking. The identifier is
// resolved once synchronously so the caller immediately sees whether the
// case exists; an unresolvable case is still registered and picked up by
// later update cycles.
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var trackedCase models.TrackedCase
	if err := json.NewDecoder(r.Body).Decode(&trackedCase.Details); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	id := trackedCase.Details.Identifier()
	if !id.Valid() {
		config.ErrorStatus("case identifier is incomplete", http.StatusBadRequest, w, courts.ErrInvalidIdentifier)
		return
	}
	if trackedCase.Details.UserID == "" {
		config.ErrorStatus("userID is required", http.StatusBadRequest, w, courts.ErrInvalidIdentifier)
		return
	}

	trackedCase.ID = primitive.NewObjectID()
	trackedCase.Version = 1
	now := primitive.NewDateTimeFromTime(time.Now())
	trackedCase.Details.Active = true
	trackedCase.Details.CreatedAt = now
	trackedCase.Details.UpdatedAt = now

	resolved := false
	if c.Resolver != nil {
		resolution, err := c.Resolver.ResolveStatus(r.Context(), id)
		if err != nil {
			zap.S().Warnw("initial resolution failed, registering anyway",
				"category", id.Category, "error", err)
		}
		if resolution != nil {
			trackedCase.Details.ApplySnapshot(*resolution.Snapshot)
			trackedCase.Details.LastCheckedAt = now
			resolved = true
		}
	}
	if !resolved && strings.TrimSpace(trackedCase.Details.Status) == "" {
		// baseline so the first successful resolution does not read as a
		// status change
		trackedCase.Details.Status = models.StatusUnknown
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := c.DB.InsertOne(ctx, trackedCase)
	if err != nil {
		config.ErrorStatus("failed to create tracked case", http.StatusInternalServerError, w, err)
		return
	}

	if resolved && c.EventDB != nil {
		event := models.ChangeEvent{
			ID:      primitive.NewObjectID(),
			Version: 1,
			Details: models.ChangeEventDetails{
				CaseID:    trackedCase.ID.Hex(),
				UserID:    trackedCase.Details.UserID,
				Kind:      models.NewCase,
				NewValue:  trackedCase.Details.Title,
				CreatedAt: now,
			},
		}
		if _, err := c.EventDB.InsertOne(ctx, event); err != nil {
			zap.S().Errorw("failed to persist new case event", "caseID", trackedCase.ID.Hex(), "error", err)
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Case tracked successfully",
		"id":       trackedCase.ID.Hex(),
		"resolved": resolved,
		"case":     trackedCase,
	})
}

// CasesByUserIDHandler returns all cases tracked by the given user
func (c Case) CasesByUserIDHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 50
	}
	limit64 := int64(Limit)
	Page := getPage(0, r)
	skip64 := int64(Page * Limit)

	zap.S().Debugf("user_id: '%v'", userID)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"trackedCase.userID": userID}
	if active := r.URL.Query().Get("active"); active != "" {
		filter["trackedCase.active"] = active == "true"
	}

	dbResp, err := c.DB.Find(ctx, filter, &options.FindOptions{
		Limit: &limit64,
		Skip:  &skip64,
		Sort:  bson.M{"_id": -1},
	})
	if err != nil {
		config.ErrorStatus("failed to get tracked cases", http.StatusNotFound, w, err)
		return
	}

	if len(dbResp) == 0 {
		dbResp = []models.TrackedCase{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CaseByIDHandler returns a tracked case by ID
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	zap.S().Debugf("case_id: %v", caseID)

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get tracked case by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateCaseHandler updates the user-mutable tracking fields: active flag,
// tags, and notes. Snapshot fields belong to the pipeline and are ignored
// here.
func (c Case) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updateData struct {
		Active *bool     `json:"active"`
		Tags   *[]string `json:"tags"`
		Notes  *string   `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{
		"trackedCase.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}
	if updateData.Active != nil {
		set["trackedCase.active"] = *updateData.Active
	}
	if updateData.Tags != nil {
		set["trackedCase.tags"] = *updateData.Tags
	}
	if updateData.Notes != nil {
		set["trackedCase.notes"] = *updateData.Notes
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = c.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update tracked case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Case updated successfully",
	})
}

// DeleteCaseHandler stops tracking a case and removes it
func (c Case) DeleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err = c.DB.DeleteOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to delete tracked case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Case deleted successfully",
	})
}

// RefreshCaseHandler forces an immediate re-resolution of one case, outside
// the batch cycle. Change events detected here are persisted the same way
// the pipeline persists them.
func (c Case) RefreshCaseHandler(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["case_id"]

	cID, err := primitive.ObjectIDFromHex(caseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	trackedCase, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to get tracked case by ID", http.StatusNotFound, w, err)
		return
	}

	resolution, err := c.Resolver.ResolveStatus(r.Context(), trackedCase.Details.Identifier())
	if err != nil {
		config.ErrorStatus("failed to resolve case", http.StatusBadGateway, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	if resolution == nil {
		err = c.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": bson.M{
			"trackedCase.lastCheckedAt": now,
			"trackedCase.updatedAt":     now,
		}})
		if err != nil {
			config.ErrorStatus("failed to update tracked case", http.StatusInternalServerError, w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":  "No provider could resolve this case right now",
			"resolved": false,
		})
		return
	}

	events := pipeline.Detect(trackedCase.Details, *resolution.Snapshot)
	for i := range events {
		events[i].CaseID = trackedCase.ID.Hex()
		events[i].CreatedAt = now
		if c.EventDB != nil {
			event := models.ChangeEvent{ID: primitive.NewObjectID(), Details: events[i], Version: 1}
			if _, err := c.EventDB.InsertOne(ctx, event); err != nil {
				zap.S().Errorw("failed to persist change event", "caseID", caseID, "error", err)
			}
		}
	}

	trackedCase.Details.ApplySnapshot(*resolution.Snapshot)
	trackedCase.Details.LastCheckedAt = now
	trackedCase.Details.UpdatedAt = now
	if len(events) > 0 {
		trackedCase.Details.LastChangedAt = now
	}

	err = c.DB.UpdateOne(ctx, bson.M{"_id": cID}, bson.M{"$set": bson.M{"trackedCase": trackedCase.Details}})
	if err != nil {
		config.ErrorStatus("failed to update tracked case", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Case refreshed successfully",
		"resolved": true,
		"source":   resolution.Source,
		"events":   events,
		"case":     trackedCase,
	})
}

// getPage reads the page query param, defaulting on garbage input
func getPage(page int, r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		return p
	}
	return page
}
