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
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

var errSOSNotFound = errors.New("no active alert with that id")

// SOS exported for testing purposes
type SOS struct {
	DB   databases.SOSAlertDatabase
	DDB  databases.NurseDutyDatabase
	PDB  databases.PatientProfileDatabase
	NDB  databases.NurseProfileDatabase
	ADB  databases.AccountDatabase
	TDB  databases.PushTokenDatabase
	NoDB databases.NotificationDatabase
	Push providers.PushSender
}

// TriggerHandler raises an SOS alert. Patients raise for themselves;
// relatives pass the patient_id query parameter.
func (s SOS) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.SOSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var patient *models.PatientProfile
	var err error
	if account.Role == models.RolePatient {
		patient, err = s.PDB.FindOne(ctx, bson.M{"user_id": account.ID})
	} else {
		var patientID primitive.ObjectID
		patientID, err = primitive.ObjectIDFromHex(r.URL.Query().Get("patient_id"))
		if err != nil {
			config.ErrorStatus("patient_id query parameter is required", http.StatusBadRequest, w, err)
			return
		}
		patient, err = s.PDB.FindOne(ctx, bson.M{"_id": patientID})
	}
	if err != nil {
		config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
		return
	}

	alert := models.SOSAlert{
		PatientID: patient.ID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Message:   req.Message,
		Status:    models.SOSActive,
		CreatedAt: time.Now(),
	}
	res, err := s.DB.InsertOne(ctx, alert)
	if err != nil {
		config.ErrorStatus("failed to create alert", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		alert.ID = id
	}

	s.fanOut(ctx, alert)

	b, err := json.Marshal(alert)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// fanOut notifies every admin and every nurse on duty for the patient.
// Failures here are logged; the alert itself already stands.
func (s SOS) fanOut(ctx context.Context, alert models.SOSAlert) {
	admins, err := s.ADB.Find(ctx, bson.M{"role": models.RoleAdmin, "is_active": true})
	if err != nil {
		zap.S().Errorw("failed to get admins for sos fan-out", "error", err)
		admins = nil
	}

	userIDs := make([]primitive.ObjectID, 0, len(admins)+1)
	for _, admin := range admins {
		userIDs = append(userIDs, admin.ID)
	}

	duties, err := s.DDB.Find(ctx, bson.M{"patient_id": alert.PatientID, "active": true})
	if err == nil {
		for _, duty := range duties {
			nurse, err := s.NDB.FindOne(ctx, bson.M{"_id": duty.NurseID})
			if err == nil {
				userIDs = append(userIDs, nurse.UserID)
			}
		}
	}

	title := "SOS alert"
	body := "A patient needs immediate attention."
	if alert.Message != "" {
		body = alert.Message
	}
	for _, userID := range userIDs {
		_, err := s.NoDB.InsertOne(ctx, models.Notification{
			UserID:    userID,
			Title:     title,
			Body:      body,
			CreatedAt: time.Now(),
		})
		if err != nil {
			zap.S().Errorw("failed to store sos notification", "user_id", userID.Hex(), "error", err)
		}
	}

	if len(userIDs) == 0 {
		return
	}
	tokens, err := s.TDB.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		zap.S().Errorw("failed to get push tokens for sos fan-out", "error", err)
		return
	}
	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}
	if len(raw) == 0 {
		return
	}
	if err := s.Push.Send(ctx, raw, title, body, map[string]interface{}{
		"type":   "sos",
		"sos_id": alert.ID.Hex(),
	}); err != nil {
		zap.S().Errorw("failed to push sos alert", "sos_id", alert.ID.Hex(), "error", err)
	}
}

// ActiveHandler lists the open alerts, newest first
func (s SOS) ActiveHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	alerts, err := s.DB.Find(ctx, bson.M{"status": models.SOSActive}, opts)
	if err != nil {
		config.ErrorStatus("failed to get alerts", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(alerts)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ResolveHandler closes an alert
func (s SOS) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	sosID, err := primitive.ObjectIDFromHex(mux.Vars(r)["sos_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := time.Now()
	modified, err := s.DB.UpdateOne(ctx, bson.M{"_id": sosID, "status": models.SOSActive}, bson.M{"$set": bson.M{
		"status":      models.SOSResolved,
		"resolved_at": now,
	}})
	if err != nil {
		config.ErrorStatus("failed to resolve alert", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		config.ErrorStatus("no active alert with that id", http.StatusNotFound, w, errSOSNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "alert resolved"}`))
}
