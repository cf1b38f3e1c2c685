package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

// NurseAdmin exported for testing purposes
type NurseAdmin struct {
	DB    databases.NurseProfileDatabase
	ADB   databases.AccountDatabase
	CDB   databases.NurseConsentDatabase
	DDB   databases.NurseDutyDatabase
	AtDB  databases.NurseAttendanceDatabase
	SDB   databases.NurseSalaryDatabase
	Email providers.EmailSender
}

// ListHandler returns all nurse profiles
func (n NurseAdmin) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{}
	if s := r.URL.Query().Get("verification_status"); s != "" {
		filter["verification_status"] = s
	}

	nurses, err := n.DB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get nurses", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(nurses)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// adminNurseCreate is the admin nurse creation payload, the self-signup
// fields plus the consent terms.
type adminNurseCreate struct {
	models.NurseSignupRequest
	Terms *models.ConsentTerms `json:"terms,omitempty"`
}

// CreateHandler creates a nurse account, an approved profile and, when terms
// are given, a pending consent carrying them
func (n NurseAdmin) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req adminNurseCreate
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

	now := time.Now()
	res, err := n.ADB.InsertOne(ctx, models.Account{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         models.RoleNurse,
		PasswordHash: hash,
		IsActive:     true,
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
		VerificationStatus: models.VerificationApproved,
		PoliceStatus:       models.PolicePending,
		JoiningDate:        now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	pres, err := n.DB.InsertOne(ctx, profile)
	if err != nil {
		config.ErrorStatus("failed to create nurse profile", http.StatusInternalServerError, w, err)
		return
	}
	if nurseID, ok := pres.Decode().(primitive.ObjectID); ok {
		profile.ID = nurseID
		if req.Terms != nil {
			if err := n.upsertConsentTerms(ctx, nurseID, *req.Terms); err != nil {
				config.ErrorStatus("failed to create consent", http.StatusInternalServerError, w, err)
				return
			}
		}
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateHandler edits a nurse profile. Terms are stored on the nurse's
// latest consent without touching its status; a nurse with no consent yet
// gets a pending one to sign.
func (n NurseAdmin) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.NurseAdminUpdateRequest
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

	if _, err := n.DB.UpdateOne(ctx, bson.M{"_id": nurseID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	if req.Terms != nil {
		if err := n.upsertConsentTerms(ctx, nurseID, *req.Terms); err != nil {
			config.ErrorStatus("failed to store consent terms", http.StatusInternalServerError, w, err)
			return
		}
	}

	profile, err := n.DB.FindOne(ctx, bson.M{"_id": nurseID})
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

// DeleteHandler resigns a nurse: duties deactivate, the account is blocked
// and the profile is stamped with the resignation date. Records stay for
// payroll history.
func (n NurseAdmin) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	if _, err := n.DDB.DeactivateForNurse(ctx, nurseID); err != nil {
		config.ErrorStatus("failed to deactivate duties", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	_, err = n.DB.UpdateOne(ctx, bson.M{"_id": nurseID}, bson.M{"$set": bson.M{
		"resignation_date": now,
		"updated_at":       now,
	}})
	if err != nil {
		config.ErrorStatus("failed to update nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	_, err = n.ADB.UpdateOne(ctx, bson.M{"_id": profile.UserID}, bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": now,
	}, "$inc": bson.M{"token_version": 1}})
	if err != nil {
		config.ErrorStatus("failed to deactivate account", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "nurse resigned"}`))
}

// VerificationHandler sets the admin verification outcome for a nurse
func (n NurseAdmin) VerificationHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Status != models.VerificationApproved && req.Status != models.VerificationRejected {
		config.ErrorStatus("status must be APPROVED or REJECTED", http.StatusBadRequest, w, errBadStatus)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	_, err = n.DB.UpdateOne(ctx, bson.M{"_id": nurseID}, bson.M{"$set": bson.M{
		"verification_status": req.Status,
		"updated_at":          time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	n.notifyVerification(ctx, profile.UserID, req.Status)

	b, _ := json.Marshal(map[string]string{"verification_status": req.Status})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PoliceStatusHandler records the police verification outcome. A failed
// check blocks the account outright.
func (n NurseAdmin) PoliceStatusHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.PoliceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Status != models.PolicePending && req.Status != models.PoliceClear && req.Status != models.PoliceFailed {
		config.ErrorStatus("status must be PENDING, CLEAR or FAILED", http.StatusBadRequest, w, errBadStatus)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	_, err = n.DB.UpdateOne(ctx, bson.M{"_id": nurseID}, bson.M{"$set": bson.M{
		"police_verification_status": req.Status,
		"updated_at":                 time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update nurse profile", http.StatusInternalServerError, w, err)
		return
	}

	if req.Status == models.PoliceFailed {
		if _, err := n.DDB.DeactivateForNurse(ctx, nurseID); err != nil {
			config.ErrorStatus("failed to deactivate duties", http.StatusInternalServerError, w, err)
			return
		}
		_, err = n.ADB.UpdateOne(ctx, bson.M{"_id": profile.UserID}, bson.M{"$set": bson.M{
			"is_active":  false,
			"updated_at": time.Now(),
		}, "$inc": bson.M{"token_version": 1}})
		if err != nil {
			config.ErrorStatus("failed to deactivate account", http.StatusInternalServerError, w, err)
			return
		}
		zap.S().Warnw("nurse blocked on failed police verification",
			"nurse_id", nurseID.Hex(),
			"remark", req.Remark,
		)
	}

	b, _ := json.Marshal(map[string]string{"police_verification_status": req.Status})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// nurseDetail is the admin view of a single nurse, the profile plus the
// latest consent, current duty, this month's attendance and recent salaries.
type nurseDetail struct {
	Profile     *models.NurseProfile    `json:"profile"`
	Consent     *models.NurseConsent    `json:"consent,omitempty"`
	CurrentDuty *models.NurseDuty       `json:"current_duty,omitempty"`
	Attendance  models.AttendanceReport `json:"attendance"`
	Salaries    []models.NurseSalary    `json:"salaries"`
}

// DetailHandler returns the full admin view of a nurse
func (n NurseAdmin) DetailHandler(w http.ResponseWriter, r *http.Request) {
	nurseID, err := primitive.ObjectIDFromHex(mux.Vars(r)["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := n.DB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	detail := nurseDetail{Profile: profile}

	if consent, err := n.CDB.FindLatest(ctx, nurseID); err == nil {
		detail.Consent = consent
	}
	if duty, err := n.DDB.FindOne(ctx, bson.M{"nurse_id": nurseID, "active": true}); err == nil {
		detail.CurrentDuty = duty
	}

	now := time.Now().In(istZone)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, istZone)
	records, err := n.AtDB.Find(ctx, bson.M{
		"nurse_id": nurseID,
		"date":     bson.M{"$gte": month.Format("2006-01-02"), "$lt": month.AddDate(0, 1, 0).Format("2006-01-02")},
	})
	if err != nil {
		config.ErrorStatus("failed to get attendance", http.StatusInternalServerError, w, err)
		return
	}
	detail.Attendance = buildMonthlyReport(nurseID, month, records, now)

	salaries, err := n.SDB.Find(ctx, bson.M{"nurse_id": nurseID}, options.Find().SetSort(bson.M{"month": -1}).SetLimit(6))
	if err != nil {
		config.ErrorStatus("failed to get salaries", http.StatusInternalServerError, w, err)
		return
	}
	detail.Salaries = salaries

	b, err := json.Marshal(detail)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// upsertConsentTerms stores the terms on the nurse's latest consent, keeping
// its status. A nurse with no consent yet gets a fresh pending one to sign.
func (n NurseAdmin) upsertConsentTerms(ctx context.Context, nurseID primitive.ObjectID, terms models.ConsentTerms) error {
	latest, err := n.CDB.FindLatest(ctx, nurseID)
	if err == mongo.ErrNoDocuments {
		_, err = n.CDB.InsertOne(ctx, models.NurseConsent{
			NurseID:   nurseID,
			Terms:     terms,
			Status:    models.ConsentPending,
			CreatedAt: time.Now(),
		})
		return err
	}
	if err != nil {
		return err
	}

	_, err = n.CDB.UpdateOne(ctx, bson.M{"_id": latest.ID}, bson.M{"$set": bson.M{
		"terms": terms,
	}})
	return err
}

// notifyVerification emails the nurse about the verification outcome. Email
// failure is logged, never surfaced.
func (n NurseAdmin) notifyVerification(ctx context.Context, userID primitive.ObjectID, status string) {
	account, err := n.ADB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil || account.Email == "" {
		return
	}
	subject := "Your verification status has changed"
	body := "Hello " + account.Name + ", your profile verification status is now " + status + "."
	if err := n.Email.Send(account.Name, account.Email, subject, body, "<p>"+body+"</p>"); err != nil {
		zap.S().Warnw("failed to send verification email", "user_id", userID.Hex(), "error", err)
	}
}
