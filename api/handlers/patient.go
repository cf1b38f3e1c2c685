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

var errPatientAccess = errors.New("no access to this patient")

// Patient exported for testing purposes
type Patient struct {
	DB    databases.PatientProfileDatabase
	ADB   databases.AccountDatabase
	VDB   databases.PatientVitalsDatabase
	NoDB  databases.PatientNoteDatabase
	MDB   databases.PatientMedicationDatabase
	MedDB databases.MedicineDatabase
	RDB   databases.RelativeAccessDatabase
	DDB   databases.NurseDutyDatabase
	NDB   databases.NurseProfileDatabase
}

// canAccess decides whether the caller may read a patient's record. Admins
// and doctors see everyone; patients see themselves; relatives need a grant;
// nurses need an active duty with the patient.
func (p Patient) canAccess(ctx context.Context, account *models.Account, patient *models.PatientProfile) bool {
	switch account.Role {
	case models.RoleAdmin, models.RoleDoctor:
		return true
	case models.RolePatient:
		return patient.UserID == account.ID
	case models.RoleRelative:
		_, err := p.RDB.FindOne(ctx, bson.M{"patient_id": patient.ID, "relative_id": account.ID})
		return err == nil
	case models.RoleNurse:
		profile, err := p.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
		if err != nil {
			return false
		}
		n, err := p.DDB.CountDocuments(ctx, bson.M{"nurse_id": profile.ID, "patient_id": patient.ID, "active": true})
		return err == nil && n > 0
	}
	return false
}

// loadPatient resolves the patient from the route and enforces access.
func (p Patient) loadPatient(ctx context.Context, w http.ResponseWriter, r *http.Request) *models.PatientProfile {
	patientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["patient_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return nil
	}

	patient, err := p.DB.FindOne(ctx, bson.M{"_id": patientID})
	if err != nil {
		config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
		return nil
	}

	account := api.AccountFromContext(r.Context())
	if !p.canAccess(ctx, account, patient) {
		config.ErrorStatus("no access to this patient", http.StatusForbidden, w, errPatientAccess)
		return nil
	}
	return patient
}

// CreateHandler registers a patient account and profile
func (p Patient) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePatientRequest
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

	count, err := p.ADB.CountDocuments(ctx, bson.M{"phone": req.Phone})
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
	res, err := p.ADB.InsertOne(ctx, models.Account{
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Role:         models.RolePatient,
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

	patient := models.PatientProfile{
		UserID:           userID,
		Age:              req.Age,
		Gender:           req.Gender,
		Address:          req.Address,
		MedicalHistory:   req.MedicalHistory,
		EmergencyContact: req.EmergencyContact,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	pres, err := p.DB.InsertOne(ctx, patient)
	if err != nil {
		config.ErrorStatus("failed to create patient profile", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := pres.Decode().(primitive.ObjectID); ok {
		patient.ID = id
	}

	b, err := json.Marshal(patient)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// GetHandler returns a patient profile
func (p Patient) GetHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	b, err := json.Marshal(patient)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddDocumentHandler attaches an uploaded document to the patient record
func (p Patient) AddDocumentHandler(w http.ResponseWriter, r *http.Request) {
	var req models.DocumentRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Type == "" || req.Path == "" {
		config.ErrorStatus("type and path are required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	// a second document of the same type replaces the first
	if _, err := p.DB.UpdateOne(ctx, bson.M{"_id": patient.ID}, bson.M{
		"$pull": bson.M{"documents": bson.M{"type": req.Type}},
	}); err != nil {
		config.ErrorStatus("failed to replace document", http.StatusInternalServerError, w, err)
		return
	}
	_, err := p.DB.UpdateOne(ctx, bson.M{"_id": patient.ID}, bson.M{
		"$push": bson.M{"documents": req},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		config.ErrorStatus("failed to add document", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"status": "document added"}`))
}

// DeleteDocumentHandler removes all documents of a type from the record
func (p Patient) DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	docType := mux.Vars(r)["doc_type"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	_, err := p.DB.UpdateOne(ctx, bson.M{"_id": patient.ID}, bson.M{
		"$pull": bson.M{"documents": bson.M{"type": docType}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		config.ErrorStatus("failed to delete document", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "document removed"}`))
}

// AddVitalsHandler records a vitals reading for a patient
func (p Patient) AddVitalsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PatientVitals
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	account := api.AccountFromContext(r.Context())
	req.ID = primitive.NilObjectID
	req.PatientID = patient.ID
	req.RecordedBy = account.ID
	req.RecordedAt = time.Now()

	res, err := p.VDB.InsertOne(ctx, req)
	if err != nil {
		config.ErrorStatus("failed to record vitals", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		req.ID = id
	}

	b, err := json.Marshal(req)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListVitalsHandler returns a patient's vitals, newest first
func (p Patient) ListVitalsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	opts := options.Find().SetSort(bson.M{"recorded_at": -1})
	vitals, err := p.VDB.Find(ctx, bson.M{"patient_id": patient.ID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get vitals", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(vitals)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddNoteHandler appends a daily note for a patient
func (p Patient) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Note == "" {
		config.ErrorStatus("note is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	account := api.AccountFromContext(r.Context())
	note := models.PatientDailyNote{
		PatientID: patient.ID,
		AuthorID:  account.ID,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	res, err := p.NoDB.InsertOne(ctx, note)
	if err != nil {
		config.ErrorStatus("failed to add note", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		note.ID = id
	}

	b, err := json.Marshal(note)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListNotesHandler returns a patient's daily notes, newest first
func (p Patient) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	notes, err := p.NoDB.Find(ctx, bson.M{"patient_id": patient.ID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get notes", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(notes)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddMedicationHandler adds an ad-hoc medication line
func (p Patient) AddMedicationHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AddMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" {
		config.ErrorStatus("name is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	account := api.AccountFromContext(r.Context())
	med := models.PatientMedication{
		PatientID:    patient.ID,
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		PrescribedBy: account.ID,
		CreatedAt:    time.Now(),
	}
	res, err := p.MDB.InsertOne(ctx, med)
	if err != nil {
		config.ErrorStatus("failed to add medication", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		med.ID = id
	}

	b, err := json.Marshal(med)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListMedicationsHandler returns a patient's medication lines
func (p Patient) ListMedicationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	meds, err := p.MDB.Find(ctx, bson.M{"patient_id": patient.ID})
	if err != nil {
		config.ErrorStatus("failed to get medications", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(meds)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PrescribeHandler prescribes a catalogue medicine. Name and price come from
// the catalogue, not the request.
func (p Patient) PrescribeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PrescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	medicineID, err := primitive.ObjectIDFromHex(req.MedicineID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	medicine, err := p.MedDB.FindOne(ctx, bson.M{"_id": medicineID})
	if err != nil {
		config.ErrorStatus("failed to get medicine", http.StatusNotFound, w, err)
		return
	}

	account := api.AccountFromContext(r.Context())
	med := models.PatientMedication{
		PatientID:    patient.ID,
		MedicineID:   &medicine.ID,
		Name:         medicine.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		DurationDays: req.DurationDays,
		Price:        medicine.Price,
		PrescribedBy: account.ID,
		CreatedAt:    time.Now(),
	}
	res, err := p.MDB.InsertOne(ctx, med)
	if err != nil {
		config.ErrorStatus("failed to prescribe medicine", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		med.ID = id
	}

	b, err := json.Marshal(med)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// AssignNurseHandler lets a patient or relative book a nurse themselves. The
// same duty gates apply but the nurse may be moved off another assignment.
func (p Patient) AssignNurseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AssignDutyRequest
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

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	profile, err := p.NDB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}
	if profile.VerificationStatus != models.VerificationApproved {
		config.ErrorStatus("nurse is not approved", http.StatusConflict, w, errNotEligible)
		return
	}

	now := time.Now()
	duty := models.NurseDuty{
		NurseID:      nurseID,
		PatientID:    patient.ID,
		ShiftType:    req.ShiftType,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		LocationType: models.DutyLocationHome,
		Address:      req.Address,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := p.DDB.AssignDuty(ctx, duty, false)
	if err != nil {
		config.ErrorStatus("failed to assign nurse", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		duty.ID = id
	}

	b, err := json.Marshal(duty)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// AddRelativeHandler grants a relative account access to the patient
func (p Patient) AddRelativeHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RelativeAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	relativeID, err := primitive.ObjectIDFromHex(req.RelativeID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	if _, err := p.ADB.FindOne(ctx, bson.M{"_id": relativeID, "role": models.RoleRelative}); err != nil {
		config.ErrorStatus("failed to get relative account", http.StatusNotFound, w, err)
		return
	}

	access := models.RelativeAccess{
		PatientID:  patient.ID,
		RelativeID: relativeID,
		Relation:   req.Relation,
		CreatedAt:  time.Now(),
	}
	res, err := p.RDB.InsertOne(ctx, access)
	if err != nil {
		config.ErrorStatus("failed to grant access", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		access.ID = id
	}

	b, err := json.Marshal(access)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// RemoveRelativeHandler revokes a relative's access
func (p Patient) RemoveRelativeHandler(w http.ResponseWriter, r *http.Request) {
	relativeID, err := primitive.ObjectIDFromHex(mux.Vars(r)["relative_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	if err := p.RDB.DeleteOne(ctx, bson.M{"patient_id": patient.ID, "relative_id": relativeID}); err != nil {
		config.ErrorStatus("failed to revoke access", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "access revoked"}`))
}

// NursesHandler lists the nurses currently on duty for the patient
func (p Patient) NursesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient := p.loadPatient(ctx, w, r)
	if patient == nil {
		return
	}

	duties, err := p.DDB.Find(ctx, bson.M{"patient_id": patient.ID, "active": true})
	if err != nil {
		config.ErrorStatus("failed to get duties", http.StatusInternalServerError, w, err)
		return
	}

	nurseIDs := make([]primitive.ObjectID, 0, len(duties))
	for _, d := range duties {
		nurseIDs = append(nurseIDs, d.NurseID)
	}

	nurses := []models.NurseProfile{}
	if len(nurseIDs) > 0 {
		nurses, err = p.NDB.Find(ctx, bson.M{"_id": bson.M{"$in": nurseIDs}})
		if err != nil {
			config.ErrorStatus("failed to get nurses", http.StatusInternalServerError, w, err)
			return
		}
	}

	b, err := json.Marshal(nurses)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
