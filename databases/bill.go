package databases

// go generate: mockery --name PatientBillDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientBillName = "patient_bills"

// PatientBillDatabase contains the methods to use with the patient bill database
type PatientBillDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.PatientBill, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientBill, error)
	InsertOne(context.Context, models.PatientBill) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type patientBillDatabase struct {
	db DatabaseHelper
}

// NewPatientBillDatabase initializes a new instance of patient bill database with the provided db connection
func NewPatientBillDatabase(db DatabaseHelper) PatientBillDatabase {
	return &patientBillDatabase{
		db: db,
	}
}

func (b *patientBillDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PatientBill, error) {
	bill := &models.PatientBill{}
	err := b.db.Collection(patientBillName).FindOne(ctx, filter, opts...).Decode(&bill)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (b *patientBillDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientBill, error) {
	var bills []models.PatientBill
	cur, err := b.db.Collection(patientBillName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&bills)
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (b *patientBillDatabase) InsertOne(ctx context.Context, bill models.PatientBill) (InsertOneResultHelper, error) {
	return b.db.Collection(patientBillName).InsertOne(ctx, bill)
}

func (b *patientBillDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return b.db.Collection(patientBillName).UpdateOne(ctx, filter, update, opts...)
}

func (b *patientBillDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return b.db.Collection(patientBillName).DeleteMany(ctx, filter, opts...)
}
