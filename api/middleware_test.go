package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

// storedAccountDB wires the middleware to a mocked account lookup returning
// the given account for every id.
func storedAccountDB(account models.Account) databases.AccountDatabase {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Account)
		**arg = account
	})
	collectionHelper.On("FindOne", mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "users").Return(collectionHelper)

	return databases.NewAccountDatabase(dbHelper)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())
	if account == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

func TestProtectMissingToken(t *testing.T) {
	m := api.MiddlewareDB{Secret: "test-secret"}

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	rr := httptest.NewRecorder()

	m.Protect()(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectValidToken(t *testing.T) {
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleNurse,
		IsActive:     true,
		TokenVersion: 3,
	}
	m := api.MiddlewareDB{DB: storedAccountDB(account), Secret: "test-secret"}

	token, _, err := m.IssueToken(&account)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.Protect(models.RoleNurse)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"status": "ok"}`, rr.Body.String())
}

func TestProtectStaleTokenVersion(t *testing.T) {
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleNurse,
		IsActive:     true,
		TokenVersion: 3,
	}

	// issue against version 3, then the stored account moves to version 4
	issuer := api.MiddlewareDB{Secret: "test-secret"}
	token, _, err := issuer.IssueToken(&account)
	assert.NoError(t, err)

	rotated := account
	rotated.TokenVersion = 4
	m := api.MiddlewareDB{DB: storedAccountDB(rotated), Secret: "test-secret"}

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.Protect()(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectWrongSecret(t *testing.T) {
	account := models.Account{ID: primitive.NewObjectID(), IsActive: true}

	issuer := api.MiddlewareDB{Secret: "other-secret"}
	token, _, err := issuer.IssueToken(&account)
	assert.NoError(t, err)

	m := api.MiddlewareDB{DB: storedAccountDB(account), Secret: "test-secret"}

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.Protect()(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProtectInsufficientRole(t *testing.T) {
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleNurse,
		IsActive:     true,
		TokenVersion: 1,
	}
	m := api.MiddlewareDB{DB: storedAccountDB(account), Secret: "test-secret"}

	token, _, err := m.IssueToken(&account)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.Protect(models.RoleAdmin)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestProtectDeactivatedAccount(t *testing.T) {
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleNurse,
		TokenVersion: 1,
	}
	m := api.MiddlewareDB{DB: storedAccountDB(account), Secret: "test-secret"}

	token, _, err := m.IssueToken(&account)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	m.Protect()(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestProtectCookieFallback(t *testing.T) {
	account := models.Account{
		ID:           primitive.NewObjectID(),
		Role:         models.RoleAdmin,
		IsActive:     true,
		TokenVersion: 1,
	}
	m := api.MiddlewareDB{DB: storedAccountDB(account), Secret: "test-secret"}

	token, _, err := m.IssueToken(&account)
	assert.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/nurses/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rr := httptest.NewRecorder()

	m.Protect()(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
