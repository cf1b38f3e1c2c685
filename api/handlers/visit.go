package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

var errVisitNotFound = errors.New("no scheduled visit with that id")

// Visit exported for testing purposes
type Visit struct {
	DB  databases.NurseVisitDatabase
	NDB databases.NurseProfileDatabase
	PDB databases.PatientProfileDatabase
}

// CreateHandler schedules a visit for the calling nurse
func (v Visit) CreateHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := v.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	v.schedule(ctx, w, profile.ID, req)
}

// AdminCreateHandler schedules a visit for any nurse
func (v Visit) AdminCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	nurseID, err := primitive.ObjectIDFromHex(req.NurseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := v.NDB.FindOne(ctx, bson.M{"_id": nurseID}); err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	v.schedule(ctx, w, nurseID, req)
}

func (v Visit) schedule(ctx context.Context, w http.ResponseWriter, nurseID primitive.ObjectID, req models.CreateVisitRequest) {
	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	if _, err := v.PDB.FindOne(ctx, bson.M{"_id": patientID}); err != nil {
		config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
		return
	}

	visit := models.NurseVisit{
		NurseID:      nurseID,
		PatientID:    patientID,
		ScheduledAt:  req.ScheduledAt,
		Status:       models.VisitScheduled,
		LocationType: req.LocationType,
		Notes:        req.Notes,
		CreatedAt:    time.Now(),
	}
	res, err := v.DB.InsertOne(ctx, visit)
	if err != nil {
		config.ErrorStatus("failed to create visit", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		visit.ID = id
	}

	b, err := json.Marshal(visit)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// CompleteHandler marks the caller's scheduled visit as done
func (v Visit) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	visitID, err := primitive.ObjectIDFromHex(mux.Vars(r)["visit_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := v.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	now := time.Now()
	modified, err := v.DB.UpdateOne(ctx, bson.M{
		"_id":      visitID,
		"nurse_id": profile.ID,
		"status":   models.VisitScheduled,
	}, bson.M{"$set": bson.M{
		"status":       models.VisitCompleted,
		"completed_at": now,
	}})
	if err != nil {
		config.ErrorStatus("failed to complete visit", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		config.ErrorStatus("no scheduled visit with that id", http.StatusNotFound, w, errVisitNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "visit completed"}`))
}

// ListHandler returns the caller's visits, soonest first
func (v Visit) ListHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := v.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	filter := bson.M{"nurse_id": profile.ID}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}

	opts := options.Find().SetSort(bson.M{"scheduled_at": 1})
	visits, err := v.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get visits", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(visits)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
