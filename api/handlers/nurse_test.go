package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func TestNurse_SelfSignupHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Asha"}`)
	req, err := http.NewRequest("POST", "/api/v1/nurses/signup", body)
	if err != nil {
		t.Fatal(err)
	}

	n := handlers.Nurse{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.SelfSignupHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNurse_SelfSignupHandlerDuplicatePhone(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Asha", "phone": "9876543210", "password": "s3cret"}`)
	req, err := http.NewRequest("POST", "/api/v1/nurses/signup", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	usersConn := &mocks.CollectionHelper{}

	usersConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "users").Return(usersConn)

	n := handlers.Nurse{
		DB:  databases.NewNurseProfileDatabase(db),
		ADB: databases.NewAccountDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.SelfSignupHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	usersConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestNurse_SelfSignupHandlerCreatesPendingProfile(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Asha", "phone": "9876543210", "password": "s3cret", "category": "GNM", "experience_years": 3}`)
	req, err := http.NewRequest("POST", "/api/v1/nurses/signup", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	usersConn := &mocks.CollectionHelper{}
	profilesConn := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	userID := primitive.NewObjectID()
	insertResult.On("Decode").Return(userID)

	var inserted models.Account
	usersConn.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	usersConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Account)
	})
	profilesConn.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "users").Return(usersConn)
	db.On("Collection", "nurse_profiles").Return(profilesConn)

	n := handlers.Nurse{
		DB:  databases.NewNurseProfileDatabase(db),
		ADB: databases.NewAccountDatabase(db),
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.SelfSignupHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var profile models.NurseProfile
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, models.VerificationPending, profile.VerificationStatus)
	assert.Equal(t, models.PolicePending, profile.PoliceStatus)
	assert.Equal(t, "GNM", profile.Category)
	assert.False(t, inserted.IsActive, "self-signed account must stay inactive until approved")
}
