package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func adminUpdateRequest(t *testing.T, nurseID primitive.ObjectID) *http.Request {
	body := bytes.NewBufferString(`{"terms": {"shift_type": "DAY", "duty_hours": 8, "salary_type": "MONTHLY", "salary_amount": 25000}}`)
	req, err := http.NewRequest("PUT", "/api/v1/admin/nurse/"+nurseID.Hex(), body)
	if err != nil {
		t.Fatal(err)
	}
	return mux.SetURLVars(req, map[string]string{"nurse_id": nurseID.Hex()})
}

func TestNurseAdmin_UpdateHandlerKeepsSignedConsent(t *testing.T) {
	nurseID := primitive.NewObjectID()
	consentID := primitive.NewObjectID()
	signedAt := time.Now()

	db := &MockDatabaseHelper{}
	profilesConn := &mocks.CollectionHelper{}
	consentsConn := &mocks.CollectionHelper{}

	profilesConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	profileResult := &mocks.SingleResultHelper{}
	profileResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseProfile)
		**arg = models.NurseProfile{ID: nurseID}
	})
	profilesConn.On("FindOne", mock.Anything, mock.Anything).Return(profileResult)

	consentResult := &mocks.SingleResultHelper{}
	consentResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseConsent)
		**arg = models.NurseConsent{
			ID:       consentID,
			NurseID:  nurseID,
			Status:   models.ConsentSigned,
			SignedAt: &signedAt,
		}
	})
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(consentResult)

	var consentUpdate bson.M
	consentsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil).Run(func(args mock.Arguments) {
		consentUpdate = args.Get(2).(bson.M)
	})

	db.On("Collection", "nurse_profiles").Return(profilesConn)
	db.On("Collection", "nurse_consents").Return(consentsConn)

	n := handlers.NurseAdmin{
		DB:  databases.NewNurseProfileDatabase(db),
		CDB: databases.NewNurseConsentDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.UpdateHandler).ServeHTTP(rr, adminUpdateRequest(t, nurseID))

	assert.Equal(t, http.StatusOK, rr.Code)
	consentsConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)

	// the terms land on the signed consent without touching its status
	set := consentUpdate["$set"].(bson.M)
	assert.Contains(t, set, "terms")
	assert.NotContains(t, set, "status")
}

func TestNurseAdmin_UpdateHandlerSeedsConsentWhenNoneExists(t *testing.T) {
	nurseID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	profilesConn := &mocks.CollectionHelper{}
	consentsConn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	profilesConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	profileResult := &mocks.SingleResultHelper{}
	profileResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseProfile)
		**arg = models.NurseProfile{ID: nurseID}
	})
	profilesConn.On("FindOne", mock.Anything, mock.Anything).Return(profileResult)

	missingResult := &mocks.SingleResultHelper{}
	missingResult.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(missingResult)

	var seeded models.NurseConsent
	insertResult.On("Decode").Return(primitive.NewObjectID())
	consentsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		seeded = args.Get(1).(models.NurseConsent)
	})

	db.On("Collection", "nurse_profiles").Return(profilesConn)
	db.On("Collection", "nurse_consents").Return(consentsConn)

	n := handlers.NurseAdmin{
		DB:  databases.NewNurseProfileDatabase(db),
		CDB: databases.NewNurseConsentDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.UpdateHandler).ServeHTTP(rr, adminUpdateRequest(t, nurseID))

	assert.Equal(t, http.StatusOK, rr.Code)
	consentsConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, models.ConsentPending, seeded.Status)
	assert.Equal(t, 8, seeded.Terms.DutyHours)
}
