package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/api/handlers"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func downloadBillingFixture(t *testing.T, billID primitive.ObjectID) (handlers.Billing, *mocks.CollectionHelper) {
	patientID := primitive.NewObjectID()
	patientUserID := primitive.NewObjectID()

	bill := models.PatientBill{
		ID:        billID,
		PatientID: patientID,
		Items: []models.BillItem{
			{Kind: models.BillItemOther, Name: "Nursing charge", Quantity: 1, UnitPrice: 100, BaseAmount: 100, Total: 100},
		},
		SubTotal:   100,
		GrandTotal: 100,
		CreatedAt:  time.Now(),
	}

	db := &MockDatabaseHelper{}
	billsConn := &mocks.CollectionHelper{}
	patientsConn := &mocks.CollectionHelper{}
	usersConn := &mocks.CollectionHelper{}

	billResult := &mocks.SingleResultHelper{}
	billResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PatientBill)
		**arg = bill
	})
	billsConn.On("FindOne", mock.Anything, mock.Anything).Return(billResult)
	billsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)

	patientResult := &mocks.SingleResultHelper{}
	patientResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PatientProfile)
		**arg = models.PatientProfile{ID: patientID, UserID: patientUserID}
	})
	patientsConn.On("FindOne", mock.Anything, mock.Anything).Return(patientResult)

	userResult := &mocks.SingleResultHelper{}
	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Account)
		**arg = models.Account{ID: patientUserID, Name: "Ravi Kumar"}
	})
	usersConn.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	db.On("Collection", "patient_bills").Return(billsConn)
	db.On("Collection", "patient_profiles").Return(patientsConn)
	db.On("Collection", "users").Return(usersConn)

	bl := handlers.Billing{
		DB:     databases.NewPatientBillDatabase(db),
		PDB:    databases.NewPatientProfileDatabase(db),
		ADB:    databases.NewAccountDatabase(db),
		Config: config.Config{MediaDir: t.TempDir()},
	}
	return bl, billsConn
}

func downloadBillRequest(t *testing.T, billID primitive.ObjectID, query string) *http.Request {
	req, err := http.NewRequest("GET", "/api/v1/bill/"+billID.Hex()+"/pdf"+query, nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"bill_id": billID.Hex()})
	admin := models.Account{ID: primitive.NewObjectID(), Role: models.RoleAdmin, IsActive: true}
	return req.WithContext(api.ContextWithAccount(req.Context(), &admin))
}

func TestBilling_DownloadPDFHandlerWithGSTQuery(t *testing.T) {
	billID := primitive.NewObjectID()
	bl, billsConn := downloadBillingFixture(t, billID)

	rr := httptest.NewRecorder()
	http.HandlerFunc(bl.DownloadPDFHandler).ServeHTTP(rr, downloadBillRequest(t, billID, "?gst_percent=18"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "bill-"+billID.Hex()+"-gst.pdf")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))
	billsConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestBilling_DownloadPDFHandlerWithoutGST(t *testing.T) {
	billID := primitive.NewObjectID()
	bl, billsConn := downloadBillingFixture(t, billID)

	rr := httptest.NewRecorder()
	http.HandlerFunc(bl.DownloadPDFHandler).ServeHTTP(rr, downloadBillRequest(t, billID, ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "bill-"+billID.Hex()+"-nogst.pdf")
	billsConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestBilling_DownloadPDFHandlerBadGSTQuery(t *testing.T) {
	billID := primitive.NewObjectID()
	bl, _ := downloadBillingFixture(t, billID)

	rr := httptest.NewRecorder()
	http.HandlerFunc(bl.DownloadPDFHandler).ServeHTTP(rr, downloadBillRequest(t, billID, "?gst_percent=abc"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
