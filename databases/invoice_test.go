package databases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func TestPatientInvoiceDatabase_NextInvoiceNumberFirst(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	collectionHelper.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "patient_invoices").Return(collectionHelper)

	invoiceDba := databases.NewPatientInvoiceDatabase(dbHelper)

	number, err := invoiceDba.NextInvoiceNumber(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "INV-0001", number)
}

func TestPatientInvoiceDatabase_NextInvoiceNumberIncrements(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PatientInvoice)
		(*arg).InvoiceNumber = "INV-0041"
	})
	collectionHelper.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "patient_invoices").Return(collectionHelper)

	invoiceDba := databases.NewPatientInvoiceDatabase(dbHelper)

	number, err := invoiceDba.NextInvoiceNumber(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "INV-0042", number)
}

func TestPatientInvoiceDatabase_NextInvoiceNumberBadFormat(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	// a malformed number restarts the sequence instead of failing billing
	srHelper.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.PatientInvoice)
		(*arg).InvoiceNumber = "garbage"
	})
	collectionHelper.On("FindOne", mock.Anything, mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "patient_invoices").Return(collectionHelper)

	invoiceDba := databases.NewPatientInvoiceDatabase(dbHelper)

	number, err := invoiceDba.NextInvoiceNumber(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "INV-0001", number)
}
