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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func signConsentRequest(t *testing.T, account *models.Account) *http.Request {
	body := bytes.NewBufferString(`{"signature_path": "/uploads/sig.png"}`)
	req, err := http.NewRequest("POST", "/api/v1/nurses/consent/sign", body)
	if err != nil {
		t.Fatal(err)
	}
	return req.WithContext(api.ContextWithAccount(req.Context(), account))
}

func consentHandlerWith(db *MockDatabaseHelper) handlers.Consent {
	return handlers.Consent{
		DB:  databases.NewNurseConsentDatabase(db),
		NDB: databases.NewNurseProfileDatabase(db),
		DDB: databases.NewNurseDutyDatabase(db),
	}
}

func mockNurseProfile(db *MockDatabaseHelper, profileID primitive.ObjectID) {
	profilesConn := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseProfile)
		(*arg).ID = profileID
	})
	profilesConn.On("FindOne", mock.Anything, mock.Anything).Return(srHelper)
	db.On("Collection", "nurse_profiles").Return(profilesConn)
}

func TestConsent_SignHandlerNoConsent(t *testing.T) {
	account := &models.Account{ID: primitive.NewObjectID(), Role: models.RoleNurse, IsActive: true}
	req := signConsentRequest(t, account)

	db := &MockDatabaseHelper{}
	mockNurseProfile(db, primitive.NewObjectID())

	consentsConn := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	db.On("Collection", "nurse_consents").Return(consentsConn)

	c := consentHandlerWith(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.SignHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestConsent_SignHandlerAlreadySigned(t *testing.T) {
	account := &models.Account{ID: primitive.NewObjectID(), Role: models.RoleNurse, IsActive: true}
	req := signConsentRequest(t, account)

	db := &MockDatabaseHelper{}
	mockNurseProfile(db, primitive.NewObjectID())

	consentsConn := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseConsent)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Status = models.ConsentSigned
	})
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	db.On("Collection", "nurse_consents").Return(consentsConn)

	c := consentHandlerWith(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.SignHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	consentsConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsent_SignHandlerSignsPending(t *testing.T) {
	account := &models.Account{ID: primitive.NewObjectID(), Role: models.RoleNurse, IsActive: true}
	req := signConsentRequest(t, account)

	db := &MockDatabaseHelper{}
	mockNurseProfile(db, primitive.NewObjectID())

	consentID := primitive.NewObjectID()
	consentsConn := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.NurseConsent)
		(*arg).ID = consentID
		(*arg).Status = models.ConsentPending
	})
	consentsConn.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	consentsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "nurse_consents").Return(consentsConn)

	c := consentHandlerWith(db)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.SignHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var consent models.NurseConsent
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &consent))
	assert.Equal(t, models.ConsentSigned, consent.Status)
	assert.Equal(t, "/uploads/sig.png", consent.SignaturePath)
	assert.NotNil(t, consent.SignedAt)
}
