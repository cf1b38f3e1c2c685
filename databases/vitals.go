package databases

// go generate: mockery --name PatientVitalsDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientVitalsName = "patient_vitals"

// PatientVitalsDatabase contains the methods to use with the patient vitals database
type PatientVitalsDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientVitals, error)
	InsertOne(context.Context, models.PatientVitals) (InsertOneResultHelper, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type patientVitalsDatabase struct {
	db DatabaseHelper
}

// NewPatientVitalsDatabase initializes a new instance of patient vitals database with the provided db connection
func NewPatientVitalsDatabase(db DatabaseHelper) PatientVitalsDatabase {
	return &patientVitalsDatabase{
		db: db,
	}
}

func (v *patientVitalsDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientVitals, error) {
	var vitals []models.PatientVitals
	cur, err := v.db.Collection(patientVitalsName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&vitals)
	if err != nil {
		return nil, err
	}
	return vitals, nil
}

func (v *patientVitalsDatabase) InsertOne(ctx context.Context, vitals models.PatientVitals) (InsertOneResultHelper, error) {
	return v.db.Collection(patientVitalsName).InsertOne(ctx, vitals)
}

func (v *patientVitalsDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return v.db.Collection(patientVitalsName).DeleteMany(ctx, filter, opts...)
}
