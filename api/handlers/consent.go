package handlers

import (
	"encoding/json"
	"errors"
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

var (
	errConsentSigned  = errors.New("consent already signed")
	errConsentRevoked = errors.New("consent not in a signable state")
)

// Consent exported for testing purposes
type Consent struct {
	DB  databases.NurseConsentDatabase
	NDB databases.NurseProfileDatabase
	DDB databases.NurseDutyDatabase
}

// SignHandler signs the caller's pending consent
func (c Consent) SignHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.SignConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := c.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	consent, err := c.DB.FindLatest(ctx, profile.ID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("no consent to sign", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get consent", http.StatusInternalServerError, w, err)
		return
	}

	switch consent.Status {
	case models.ConsentPending:
	case models.ConsentSigned:
		config.ErrorStatus("consent already signed", http.StatusConflict, w, errConsentSigned)
		return
	default:
		config.ErrorStatus("consent is not pending", http.StatusConflict, w, errConsentRevoked)
		return
	}

	signature := req.SignaturePath
	if signature == "" {
		signature = profile.SignaturePath
	}
	if signature == "" {
		config.ErrorStatus("a signature is required to sign", http.StatusBadRequest, w, errMissingFields)
		return
	}

	now := time.Now()
	_, err = c.DB.UpdateOne(ctx, bson.M{"_id": consent.ID, "status": models.ConsentPending}, bson.M{"$set": bson.M{
		"status":         models.ConsentSigned,
		"signature_path": signature,
		"signed_at":      now,
	}})
	if err != nil {
		config.ErrorStatus("failed to sign consent", http.StatusInternalServerError, w, err)
		return
	}

	consent.Status = models.ConsentSigned
	consent.SignaturePath = signature
	consent.SignedAt = &now

	b, err := json.Marshal(consent)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// StatusHandler returns the caller's latest consent
func (c Consent) StatusHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := c.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	consent, err := c.DB.FindLatest(ctx, profile.ID)
	if err != nil {
		config.ErrorStatus("failed to get consent", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(consent)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RevokeHandler revokes a nurse's signed consent and pulls them off any
// active duty
func (c Consent) RevokeHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	consent, err := c.DB.FindLatest(ctx, nurseID)
	if err != nil {
		config.ErrorStatus("failed to get consent", http.StatusNotFound, w, err)
		return
	}
	if consent.Status != models.ConsentSigned {
		config.ErrorStatus("only a signed consent can be revoked", http.StatusConflict, w, errConsentRevoked)
		return
	}

	now := time.Now()
	_, err = c.DB.UpdateOne(ctx, bson.M{"_id": consent.ID}, bson.M{"$set": bson.M{
		"status":     models.ConsentRevoked,
		"revoked_at": now,
	}})
	if err != nil {
		config.ErrorStatus("failed to revoke consent", http.StatusInternalServerError, w, err)
		return
	}

	if _, err := c.DDB.DeactivateForNurse(ctx, nurseID); err != nil {
		config.ErrorStatus("failed to deactivate duties", http.StatusInternalServerError, w, err)
		return
	}

	consent.Status = models.ConsentRevoked
	consent.RevokedAt = &now

	b, err := json.Marshal(consent)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
