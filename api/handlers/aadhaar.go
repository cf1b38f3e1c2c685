package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

var (
	errAlreadyVerified = errors.New("aadhaar already verified")
	errNoAadhaar       = errors.New("aadhaar number is required")
)

// Aadhaar exported for testing purposes
type Aadhaar struct {
	NDB      databases.NurseProfileDatabase
	JDB      databases.VerificationJobDatabase
	Verifier providers.AadhaarVerifier
}

// GenerateOTPHandler starts aadhaar verification for the caller. The number
// is stored on the profile and an OTP goes to the linked phone.
func (a Aadhaar) GenerateOTPHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req struct {
		AadhaarNumber string `json:"aadhaar_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.AadhaarNumber == "" {
		config.ErrorStatus("aadhaar_number is required", http.StatusBadRequest, w, errNoAadhaar)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := a.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}
	if profile.AadhaarVerified {
		config.ErrorStatus("aadhaar already verified", http.StatusConflict, w, errAlreadyVerified)
		return
	}

	referenceID, err := a.Verifier.GenerateOTP(r.Context(), req.AadhaarNumber)
	if err != nil {
		config.ErrorStatus("failed to generate aadhaar otp", http.StatusBadGateway, w, err)
		return
	}

	_, err = a.NDB.UpdateOne(ctx, bson.M{"_id": profile.ID}, bson.M{"$set": bson.M{
		"aadhaar_number": req.AadhaarNumber,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to store aadhaar number", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]string{"reference_id": referenceID})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VerifyOTPHandler queues the OTP for background verification. The actual
// provider call happens in the scheduler worker; the nurse polls their
// profile for the outcome.
func (a Aadhaar) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req struct {
		ReferenceID string `json:"reference_id"`
		OTP         string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.ReferenceID == "" || req.OTP == "" {
		config.ErrorStatus("reference_id and otp are required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := a.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}
	if profile.AadhaarVerified {
		config.ErrorStatus("aadhaar already verified", http.StatusConflict, w, errAlreadyVerified)
		return
	}

	now := time.Now()
	job := models.VerificationJob{
		NurseID:     profile.ID,
		ReferenceID: req.ReferenceID,
		OTP:         req.OTP,
		Status:      models.JobPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := a.JDB.InsertOne(ctx, job)
	if err != nil {
		config.ErrorStatus("failed to queue verification", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		job.ID = id
	}

	b, err := json.Marshal(job)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	w.Write(b)
}
