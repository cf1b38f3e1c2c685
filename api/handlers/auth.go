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
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

// otpValidity is how long an OTP session stays redeemable.
const otpValidity = 10 * time.Minute

var (
	errAccountInactive = errors.New("account is deactivated")
	errOTPExpired      = errors.New("otp session expired")
	errBadCredentials  = errors.New("phone or password incorrect")
	errMissingFields   = errors.New("required fields missing")
	errPhoneTaken      = errors.New("phone number already registered")
	errBadInsertID     = errors.New("inserted id is not an object id")
	errBadStatus       = errors.New("unknown status value")
	errNotEligible     = errors.New("nurse has not cleared the duty gates")
	errDutyNotFound    = errors.New("duty not found")
)

// Auth exported for testing purposes
type Auth struct {
	DB  databases.AccountDatabase
	OTP providers.OTPSender
	M   api.MiddlewareDB
}

// SendOTPHandler requests an SMS OTP for a registered phone number
func (a Auth) SendOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	account, err := a.DB.FindOne(ctx, bson.M{"phone": req.Phone})
	if err != nil {
		config.ErrorStatus("failed to get account by phone", http.StatusNotFound, w, err)
		return
	}

	sessionID, err := a.OTP.Send(r.Context(), account.Phone)
	if err != nil {
		config.ErrorStatus("failed to send otp", http.StatusBadGateway, w, err)
		return
	}

	_, err = a.DB.UpdateOne(ctx, bson.M{"_id": account.ID}, bson.M{"$set": bson.M{
		"otp_session_id": sessionID,
		"otp_expires_at": time.Now().Add(otpValidity),
	}})
	if err != nil {
		config.ErrorStatus("failed to store otp session", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "otp sent"}`))
}

// VerifyOTPHandler redeems an OTP for a signed token
func (a Auth) VerifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	account, err := a.DB.FindOne(ctx, bson.M{"phone": req.Phone})
	if err != nil {
		config.ErrorStatus("failed to get account by phone", http.StatusNotFound, w, err)
		return
	}
	if !account.IsActive {
		config.ErrorStatus("account is deactivated", http.StatusForbidden, w, errAccountInactive)
		return
	}
	if account.OTPSessionID == "" || time.Now().After(account.OTPExpiresAt) {
		config.ErrorStatus("otp session expired", http.StatusUnauthorized, w, errOTPExpired)
		return
	}

	if err := a.OTP.Verify(r.Context(), account.OTPSessionID, req.OTP); err != nil {
		config.ErrorStatus("otp verification failed", http.StatusUnauthorized, w, err)
		return
	}

	a.issueSession(ctx, w, account, bson.M{"otp_session_id": "", "otp_expires_at": time.Time{}})
}

// PasswordLoginHandler performs phone/password login
func (a Auth) PasswordLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	account, err := a.DB.FindOne(ctx, bson.M{"phone": req.Phone})
	if err != nil {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, err)
		return
	}
	if !account.IsActive {
		config.ErrorStatus("account is deactivated", http.StatusForbidden, w, errAccountInactive)
		return
	}
	if !api.CheckPassword(account.PasswordHash, req.Password) {
		config.ErrorStatus("invalid credentials", http.StatusUnauthorized, w, errBadCredentials)
		return
	}

	a.issueSession(ctx, w, account, nil)
}

// issueSession bumps the token version, signs a token carrying the new
// version and writes the token response. Bumping first means every earlier
// token is dead before the new one goes out.
func (a Auth) issueSession(ctx context.Context, w http.ResponseWriter, account *models.Account, extraSet bson.M) {
	update := bson.M{"$inc": bson.M{"token_version": 1}}
	if len(extraSet) > 0 {
		update["$set"] = extraSet
	}

	_, err := a.DB.UpdateOne(ctx, bson.M{"_id": account.ID}, update)
	if err != nil {
		config.ErrorStatus("failed to rotate token version", http.StatusInternalServerError, w, err)
		return
	}
	account.TokenVersion++

	token, expiresAt, err := a.M.IssueToken(account)
	if err != nil {
		config.ErrorStatus("failed to sign token", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("login",
		"user_id", account.ID.Hex(),
		"role", account.Role,
	)

	b, err := json.Marshal(models.TokenResponse{
		Token:     token,
		Role:      account.Role,
		UserID:    account.ID.Hex(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MeHandler returns the authenticated account
func (a Auth) MeHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	b, err := json.Marshal(account)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LogoutHandler invalidates every outstanding token by bumping the version
func (a Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := a.DB.UpdateOne(ctx, bson.M{"_id": account.ID}, bson.M{"$inc": bson.M{"token_version": 1}})
	if err != nil {
		config.ErrorStatus("failed to revoke tokens", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "logged out"}`))
}

// BlockHandler deactivates an account
func (a Auth) BlockHandler(w http.ResponseWriter, r *http.Request) {
	a.setActive(w, r, false)
}

// UnblockHandler reactivates an account
func (a Auth) UnblockHandler(w http.ResponseWriter, r *http.Request) {
	a.setActive(w, r, true)
}

func (a Auth) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID := mux.Vars(r)["user_id"]

	uID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modified, err := a.DB.UpdateOne(ctx, bson.M{"_id": uID}, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update account", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		zap.S().Debugw("account active flag unchanged", "user_id", userID)
	}

	b, _ := json.Marshal(map[string]bool{"is_active": active})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
