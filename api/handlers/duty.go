package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// Duty exported for testing purposes
type Duty struct {
	DB  databases.NurseDutyDatabase
	NDB databases.NurseProfileDatabase
	PDB databases.PatientProfileDatabase
	CDB databases.NurseConsentDatabase
}

// AssignHandler assigns a nurse to a patient. The nurse must pass every duty
// gate and must not already hold an active duty.
func (d Duty) AssignHandler(w http.ResponseWriter, r *http.Request) {
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
	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	if req.LocationType != models.DutyLocationHospital && req.LocationType != models.DutyLocationHome {
		config.ErrorStatus("location_type must be HOSPITAL or HOME", http.StatusBadRequest, w, errBadStatus)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := d.NDB.FindOne(ctx, bson.M{"_id": nurseID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}
	if _, err := d.PDB.FindOne(ctx, bson.M{"_id": patientID}); err != nil {
		config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
		return
	}

	consent, err := d.CDB.FindLatest(ctx, nurseID)
	if err != nil {
		consent = nil
	}
	if e := eligibilityFor(profile, consent); !e.Eligible {
		config.ErrorStatus("nurse is not eligible for duty: "+e.Reason, http.StatusConflict, w, errNotEligible)
		return
	}

	now := time.Now()
	duty := models.NurseDuty{
		NurseID:      nurseID,
		PatientID:    patientID,
		ShiftType:    req.ShiftType,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		LocationType: req.LocationType,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// only the fields of the chosen location kind are kept
	if req.LocationType == models.DutyLocationHospital {
		duty.Ward = req.Ward
		duty.Room = req.Room
	} else {
		duty.Address = req.Address
	}

	res, err := d.DB.AssignDuty(ctx, duty, true)
	if err != nil {
		if err == databases.ErrNurseOnDuty {
			config.ErrorStatus("nurse already has an active duty", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to assign duty", http.StatusInternalServerError, w, err)
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

// CurrentHandler returns the caller's active duty
func (d Duty) CurrentHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := d.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	duty, err := d.DB.FindOne(ctx, bson.M{"nurse_id": profile.ID, "active": true})
	if err != nil {
		config.ErrorStatus("no active duty", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(duty)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeactivateHandler ends a duty
func (d Duty) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	dutyID, err := primitive.ObjectIDFromHex(mux.Vars(r)["duty_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modified, err := d.DB.UpdateOne(ctx, bson.M{"_id": dutyID, "active": true}, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		config.ErrorStatus("failed to deactivate duty", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		config.ErrorStatus("no active duty with that id", http.StatusNotFound, w, errDutyNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "duty deactivated"}`))
}
