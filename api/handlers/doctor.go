package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// Doctor exported for testing purposes
type Doctor struct {
	DB  databases.DoctorProfileDatabase
	ADB databases.AccountDatabase
	VDB databases.DoctorVisitDatabase
	MDB databases.PatientMedicationDatabase
}

// CreateHandler registers a doctor account and profile
func (d Doctor) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDoctorRequest
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

	count, err := d.ADB.CountDocuments(ctx, bson.M{"phone": req.Phone})
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
	res, err := d.ADB.InsertOne(ctx, models.Account{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         models.RoleDoctor,
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

	profile := models.DoctorProfile{
		UserID:          userID,
		Specialization:  req.Specialization,
		Qualification:   req.Qualification,
		ExperienceYears: req.ExperienceYears,
		Available:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	pres, err := d.DB.InsertOne(ctx, profile)
	if err != nil {
		config.ErrorStatus("failed to create doctor profile", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := pres.Decode().(primitive.ObjectID); ok {
		profile.ID = id
	}

	b, err := json.Marshal(profile)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// AvailabilityHandler toggles the caller's availability flag
func (d Doctor) AvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	_, err := d.DB.UpdateOne(ctx, bson.M{"user_id": account.ID}, bson.M{"$set": bson.M{
		"available":  req.Available,
		"updated_at": time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to update availability", http.StatusInternalServerError, w, err)
		return
	}

	b, _ := json.Marshal(map[string]bool{"available": req.Available})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateVisitHandler records a visit made by the calling doctor
func (d Doctor) CreateVisitHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.DoctorVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := d.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get doctor profile", http.StatusNotFound, w, err)
		return
	}

	visitedAt := req.VisitedAt
	if visitedAt.IsZero() {
		visitedAt = time.Now()
	}

	visit := models.DoctorVisit{
		DoctorID:     profile.ID,
		PatientID:    patientID,
		VisitedAt:    visitedAt,
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		CreatedAt:    time.Now(),
	}
	res, err := d.VDB.InsertOne(ctx, visit)
	if err != nil {
		config.ErrorStatus("failed to record visit", http.StatusInternalServerError, w, err)
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

// ListVisitsHandler returns the caller's visits, newest first
func (d Doctor) ListVisitsHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := d.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get doctor profile", http.StatusNotFound, w, err)
		return
	}

	opts := options.Find().SetSort(bson.M{"visited_at": -1})
	visits, err := d.VDB.Find(ctx, bson.M{"doctor_id": profile.ID}, opts)
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

// doctorPatient summarizes the caller's history with one patient.
type doctorPatient struct {
	PatientID     string    `json:"patient_id"`
	Visits        int       `json:"visits"`
	Prescriptions int       `json:"prescriptions"`
	LastVisit     time.Time `json:"last_visit"`
}

// MyPatientsHandler lists the patients the caller has seen, most recent first
func (d Doctor) MyPatientsHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := d.DB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get doctor profile", http.StatusNotFound, w, err)
		return
	}

	visits, err := d.VDB.Find(ctx, bson.M{"doctor_id": profile.ID})
	if err != nil {
		config.ErrorStatus("failed to get visits", http.StatusInternalServerError, w, err)
		return
	}

	byPatient := make(map[primitive.ObjectID]*doctorPatient)
	for _, visit := range visits {
		dp, ok := byPatient[visit.PatientID]
		if !ok {
			dp = &doctorPatient{PatientID: visit.PatientID.Hex()}
			byPatient[visit.PatientID] = dp
		}
		dp.Visits++
		if visit.VisitedAt.After(dp.LastVisit) {
			dp.LastVisit = visit.VisitedAt
		}
	}

	meds, err := d.MDB.Find(ctx, bson.M{"prescribed_by": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get prescriptions", http.StatusInternalServerError, w, err)
		return
	}
	for _, med := range meds {
		dp, ok := byPatient[med.PatientID]
		if !ok {
			dp = &doctorPatient{PatientID: med.PatientID.Hex()}
			byPatient[med.PatientID] = dp
		}
		dp.Prescriptions++
	}

	patients := make([]doctorPatient, 0, len(byPatient))
	for _, dp := range byPatient {
		patients = append(patients, *dp)
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].LastVisit.After(patients[j].LastVisit)
	})

	b, err := json.Marshal(patients)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
