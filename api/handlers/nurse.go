package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// Nurse exported for testing purposes
type Nurse struct {
	DB  databases.NurseProfileDatabase
	ADB databases.AccountDatabase
	CDB databases.NurseConsentDatabase
	DDB databases.NurseDutyDatabase
	PDB databases.PatientProfileDatabase
}

// SelfSignupHandler registers a nurse account and a pending profile
func (n Nurse) SelfSignupHandler(w http.ResponseWriter, r *http.Request) {
	var req models.NurseSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Phone == "" || req.Password == "" {
		config.ErrorStatus("phone and password are required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := n.ADB.CountDocuments(ctx, bson.M{"phone": req.Phone})
	if err != nil {
		config.ErrorStatus("failed to check for existing account", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("an account with this phone already exists", http.StatusConflict, w, errPhoneTaken)
		return
	}

	hash, err := api.HashPassword(req.Password)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	// self-signed accounts stay inactive until an admin approves the nurse
	now := time.Now()
	res, err := n.ADB.InsertOne(ctx, models.Account{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         models.RoleNurse,
		PasswordHash: hash,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		config.ErrorStatus("failed to create account", http.StatusInternalServerError, w, err)
		return
	}

	userID, ok := res.Decode().(primitive.ObjectID)
	if !ok {
		config.ErrorStatus("failed to read inserted account id", http.StatusInternalServerError, w, errBadInsertID)
		return
	}

	profile := models.NurseProfile{
		UserID:             userID,
		Category:           req.Category,
		Qualification:      req.Qualification,
		ExperienceYears:    req.ExperienceYears,
		VerificationStatus: models.VerificationPending,
		PoliceStatus:       models.PolicePending,
		JoiningDate:        now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := n.DB.InsertOne(ctx, profile); err != nil {
		config.ErrorStatus("failed to create nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// MyProfileHandler returns the caller's nurse profile
func (n Nurse) MyProfileHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateMyProfileHandler lets a nurse edit the non-privileged profile fields.
// Verification, police status and aadhaar flags are admin territory.
func (n Nurse) UpdateMyProfileHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.NurseSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	set := bson.M{"updated_at": time.Now()}
	if req.Category != "" {
		set["category"] = req.Category
	}
	if req.Qualification != "" {
		set["qualification"] = req.Qualification
	}
	if req.ExperienceYears > 0 {
		set["experience_years"] = req.ExperienceYears
	}

	if _, err := n.DB.UpdateOne(ctx, bson.M{"user_id": account.ID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	profile, err := n.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateSignatureHandler stores the nurse's signature image path
func (n Nurse) UpdateSignatureHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.SignConsentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.SignaturePath == "" {
		config.ErrorStatus("signature_path is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := n.DB.UpdateOne(ctx, bson.M{"user_id": account.ID}, bson.M{"$set": bson.M{
		"signature_path": req.SignaturePath,
		"updated_at":     time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update signature", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "signature updated"}`))
}

// nurseDashboard is the aggregate view a nurse sees after login.
type nurseDashboard struct {
	Profile     *models.NurseProfile   `json:"profile"`
	Consent     *models.NurseConsent   `json:"consent,omitempty"`
	CurrentDuty *models.NurseDuty      `json:"current_duty,omitempty"`
	Eligibility models.DutyEligibility `json:"eligibility"`
}

// DashboardHandler aggregates profile, latest consent, current duty and
// eligibility into one response
func (n Nurse) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	dash := nurseDashboard{Profile: profile}

	consent, err := n.CDB.FindLatest(ctx, profile.ID)
	if err == nil {
		dash.Consent = consent
	} else if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to get consent", http.StatusInternalServerError, w, err)
		return
	}

	duty, err := n.DDB.FindOne(ctx, bson.M{"nurse_id": profile.ID, "active": true})
	if err == nil {
		dash.CurrentDuty = duty
	} else if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to get duty", http.StatusInternalServerError, w, err)
		return
	}

	dash.Eligibility = eligibilityFor(profile, dash.Consent)

	b, err := json.Marshal(dash)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EligibilityHandler reports whether duty-dependent features are unlocked
func (n Nurse) EligibilityHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	var consent *models.NurseConsent
	c, err := n.CDB.FindLatest(ctx, profile.ID)
	if err == nil {
		consent = c
	} else if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to get consent", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(eligibilityFor(profile, consent))
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MyPatientsHandler lists the patients the nurse has ever been assigned to,
// current duty first
func (n Nurse) MyPatientsHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	duties, err := n.DDB.Find(ctx, bson.M{"nurse_id": profile.ID},
		options.Find().SetSort(bson.D{{Key: "active", Value: -1}, {Key: "created_at", Value: -1}}))
	if err != nil {
		config.ErrorStatus("failed to get duties", http.StatusInternalServerError, w, err)
		return
	}

	patientIDs := make([]primitive.ObjectID, 0, len(duties))
	seen := make(map[primitive.ObjectID]bool)
	for _, d := range duties {
		if !seen[d.PatientID] {
			seen[d.PatientID] = true
			patientIDs = append(patientIDs, d.PatientID)
		}
	}

	patients := []models.PatientProfile{}
	if len(patientIDs) > 0 {
		patients, err = n.PDB.Find(ctx, bson.M{"_id": bson.M{"$in": patientIDs}})
		if err != nil {
			config.ErrorStatus("failed to get patients", http.StatusInternalServerError, w, err)
			return
		}
	}

	b, err := json.Marshal(patients)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// eligibilityFor applies the duty gates in order: signed consent first, then
// police clearance, then aadhaar. The first failed gate is the reported reason.
func eligibilityFor(profile *models.NurseProfile, consent *models.NurseConsent) models.DutyEligibility {
	if consent == nil || consent.Status != models.ConsentSigned {
		return models.DutyEligibility{Reason: models.ReasonConsentNotSigned}
	}
	if profile.PoliceStatus != models.PoliceClear {
		return models.DutyEligibility{Reason: models.ReasonPoliceVerificationPending}
	}
	if !profile.AadhaarVerified {
		return models.DutyEligibility{Reason: models.ReasonAadhaarNotVerified}
	}
	return models.DutyEligibility{Eligible: true}
}
