package databases

// go generate: mockery --name PatientInvoiceDatabase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientInvoiceName = "patient_invoices"

// PatientInvoiceDatabase contains the methods to use with the patient invoice database
type PatientInvoiceDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.PatientInvoice, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientInvoice, error)
	InsertOne(context.Context, models.PatientInvoice) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
}

type patientInvoiceDatabase struct {
	db DatabaseHelper
}

// NewPatientInvoiceDatabase initializes a new instance of patient invoice database with the provided db connection
func NewPatientInvoiceDatabase(db DatabaseHelper) PatientInvoiceDatabase {
	return &patientInvoiceDatabase{
		db: db,
	}
}

func (i *patientInvoiceDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PatientInvoice, error) {
	invoice := &models.PatientInvoice{}
	err := i.db.Collection(patientInvoiceName).FindOne(ctx, filter, opts...).Decode(&invoice)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (i *patientInvoiceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientInvoice, error) {
	var invoices []models.PatientInvoice
	cur, err := i.db.Collection(patientInvoiceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&invoices)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (i *patientInvoiceDatabase) InsertOne(ctx context.Context, invoice models.PatientInvoice) (InsertOneResultHelper, error) {
	return i.db.Collection(patientInvoiceName).InsertOne(ctx, invoice)
}

func (i *patientInvoiceDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return i.db.Collection(patientInvoiceName).UpdateOne(ctx, filter, update, opts...)
}

// NextInvoiceNumber derives the next INV-%04d number from the most recently
// created invoice. Starts at INV-0001 on an empty collection.
func (i *patientInvoiceDatabase) NextInvoiceNumber(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	latest, err := i.FindOne(ctx, bson.M{}, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "INV-0001", nil
		}
		return "", err
	}

	var seq int
	if _, err := fmt.Sscanf(latest.InvoiceNumber, "INV-%04d", &seq); err != nil {
		seq = 0
	}
	return fmt.Sprintf("INV-%04d", seq+1), nil
}
