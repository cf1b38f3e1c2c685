package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// locationStaleness is how old a ping can be before tracking reports the
// nurse as inactive.
const locationStaleness = 15 * time.Minute

// Location exported for testing purposes
type Location struct {
	DB  databases.NurseLocationDatabase
	NDB databases.NurseProfileDatabase
}

// UpdateHandler records a location ping from the caller
func (l Location) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.LocationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := l.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	if err := l.DB.Upsert(ctx, profile.ID, req.Latitude, req.Longitude, time.Now()); err != nil {
		config.ErrorStatus("failed to update location", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "location updated"}`))
}

// TrackHandler returns a nurse's last known position. A stale or missing
// ping reports inactive rather than erroring.
func (l Location) TrackHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp := models.LocationResponse{}
	loc, err := l.DB.FindOne(ctx, bson.M{"nurse_id": nurseID})
	if err == nil {
		resp.Latitude = loc.Latitude
		resp.Longitude = loc.Longitude
		resp.UpdatedAt = &loc.UpdatedAt
		resp.Active = time.Since(loc.UpdatedAt) < locationStaleness
	} else if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to get location", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
