package handlers

import (
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

var errComplaintMissing = errors.New("complaint not found")

// Complaint exported for testing purposes
type Complaint struct {
	DB databases.ComplaintDatabase
}

// CreateHandler files a complaint for the caller
func (c Complaint) CreateHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.ComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Subject == "" {
		config.ErrorStatus("subject is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := time.Now()
	complaint := models.Complaint{
		UserID:    account.ID,
		Subject:   req.Subject,
		Body:      req.Body,
		Status:    models.ComplaintOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := c.DB.InsertOne(ctx, complaint)
	if err != nil {
		config.ErrorStatus("failed to create complaint", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		complaint.ID = id
	}

	b, err := json.Marshal(complaint)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListHandler returns complaints: admins see all, everyone else their own
func (c Complaint) ListHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{}
	if account.Role != models.RoleAdmin {
		filter["user_id"] = account.ID
	}
	if s := r.URL.Query().Get("status"); s != "" {
		filter["status"] = s
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	complaints, err := c.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(complaints)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateStatusHandler moves a complaint through its states
func (c Complaint) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	complaintID, err := primitive.ObjectIDFromHex(mux.Vars(r)["complaint_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.ComplaintStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	switch req.Status {
	case models.ComplaintOpen, models.ComplaintInProgress, models.ComplaintResolved:
	default:
		config.ErrorStatus("status must be OPEN, IN_PROGRESS or RESOLVED", http.StatusBadRequest, w, errBadStatus)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modified, err := c.DB.UpdateOne(ctx, bson.M{"_id": complaintID}, bson.M{"$set": bson.M{
		"status":     req.Status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update complaint", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		config.ErrorStatus("complaint not found", http.StatusNotFound, w, errComplaintMissing)
		return
	}

	b, _ := json.Marshal(map[string]string{"status": req.Status})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
