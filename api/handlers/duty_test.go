package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

// assignDutyFixture wires an eligible nurse, an existing patient and a free
// duty roster, capturing the duty that gets inserted.
func assignDutyFixture(nurseID, patientID primitive.ObjectID, inserted *models.NurseDuty) handlers.Duty {
	db := &MockDatabaseHelper{}
	nursesConn := &mocks.CollectionHelper{}
	patientsConn := &mocks.CollectionHelper{}
	consentsConn := &mocks.CollectionHelper{}
	dutiesConn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	nurseResult := &mocks.SingleResultHelper{}
	nurseResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseProfile)
		**arg = models.NurseProfile{ID: nurseID, PoliceStatus: models.PoliceClear, AadhaarVerified: true}
	})
	nursesConn.On("FindOne", mock.Anything, mock.Anything).Return(nurseResult)

	patientResult := &mocks.SingleResultHelper{}
	patientResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PatientProfile)
		**arg = models.PatientProfile{ID: patientID}
	})
	patientsConn.On("FindOne", mock.Anything, mock.Anything).Return(patientResult)

	consentResult := &mocks.SingleResultHelper{}
	consentResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseConsent)
		**arg = models.NurseConsent{NurseID: nurseID, Status: models.ConsentSigned}
	})
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(consentResult)

	insertResult.On("Decode").Return(primitive.NewObjectID())
	dutiesConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	dutiesConn.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	dutiesConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		*inserted = args.Get(1).(models.NurseDuty)
	})

	db.On("Collection", "nurse_profiles").Return(nursesConn)
	db.On("Collection", "patient_profiles").Return(patientsConn)
	db.On("Collection", "nurse_consents").Return(consentsConn)
	db.On("Collection", "nurse_duties").Return(dutiesConn)

	return handlers.Duty{
		DB:  databases.NewNurseDutyDatabase(db),
		NDB: databases.NewNurseProfileDatabase(db),
		PDB: databases.NewPatientProfileDatabase(db),
		CDB: databases.NewNurseConsentDatabase(db),
	}
}

func assignDutyBody(nurseID, patientID primitive.ObjectID, locationType string) *bytes.Buffer {
	start := time.Now().Format(time.RFC3339)
	return bytes.NewBufferString(fmt.Sprintf(`{
		"nurse_id": %q,
		"patient_id": %q,
		"shift_type": "DAY",
		"start_time": %q,
		"location_type": %q,
		"ward": "B2",
		"room": "14",
		"address": "12 MG Road"
	}`, nurseID.Hex(), patientID.Hex(), start, locationType))
}

func TestDuty_AssignHandlerHospitalDropsAddress(t *testing.T) {
	nurseID := primitive.NewObjectID()
	patientID := primitive.NewObjectID()

	var inserted models.NurseDuty
	d := assignDutyFixture(nurseID, patientID, &inserted)

	req, err := http.NewRequest("POST", "/api/v1/admin/duty/assign", assignDutyBody(nurseID, patientID, models.DutyLocationHospital))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.AssignHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "B2", inserted.Ward)
	assert.Equal(t, "14", inserted.Room)
	assert.Empty(t, inserted.Address)
}

func TestDuty_AssignHandlerHomeDropsWardAndRoom(t *testing.T) {
	nurseID := primitive.NewObjectID()
	patientID := primitive.NewObjectID()

	var inserted models.NurseDuty
	d := assignDutyFixture(nurseID, patientID, &inserted)

	req, err := http.NewRequest("POST", "/api/v1/admin/duty/assign", assignDutyBody(nurseID, patientID, models.DutyLocationHome))
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(d.AssignHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "12 MG Road", inserted.Address)
	assert.Empty(t, inserted.Ward)
	assert.Empty(t, inserted.Room)
}
