package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

func TestAuth_PasswordLoginHandlerUnknownPhone(t *testing.T) {
	body := bytes.NewBufferString(`{"phone": "9999999999", "password": "whatever"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	a := handlers.Auth{
		DB: databases.NewAccountDatabase(db),
		M:  api.MiddlewareDB{Secret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PasswordLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_PasswordLoginHandlerWrongPassword(t *testing.T) {
	hash, err := api.HashPassword("correct-pass")
	assert.NoError(t, err)

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Phone:        "9876543210",
		Role:         models.RoleNurse,
		PasswordHash: hash,
		IsActive:     true,
	}

	body := bytes.NewBufferString(`{"phone": "9876543210", "password": "wrong-pass"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Account)
		**arg = account
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	a := handlers.Auth{
		DB: databases.NewAccountDatabase(db),
		M:  api.MiddlewareDB{Secret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PasswordLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_PasswordLoginHandlerDeactivated(t *testing.T) {
	hash, err := api.HashPassword("correct-pass")
	assert.NoError(t, err)

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Phone:        "9876543210",
		Role:         models.RoleNurse,
		PasswordHash: hash,
	}

	body := bytes.NewBufferString(`{"phone": "9876543210", "password": "correct-pass"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Account)
		**arg = account
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "users").Return(conn)

	a := handlers.Auth{
		DB: databases.NewAccountDatabase(db),
		M:  api.MiddlewareDB{Secret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PasswordLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAuth_PasswordLoginHandlerIssuesRotatedToken(t *testing.T) {
	hash, err := api.HashPassword("correct-pass")
	assert.NoError(t, err)

	account := models.Account{
		ID:           primitive.NewObjectID(),
		Phone:        "9876543210",
		Role:         models.RoleNurse,
		PasswordHash: hash,
		IsActive:     true,
		TokenVersion: 7,
	}

	body := bytes.NewBufferString(`{"phone": "9876543210", "password": "correct-pass"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResultHelper := &mocks.SingleResultHelper{}

	singleResultHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Account)
		**arg = account
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	db.On("Collection", "users").Return(conn)

	a := handlers.Auth{
		DB: databases.NewAccountDatabase(db),
		M:  api.MiddlewareDB{Secret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(a.PasswordLoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.TokenResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleNurse, resp.Role)
	assert.Equal(t, account.ID.Hex(), resp.UserID)

	// the old token version was bumped before signing
	conn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
