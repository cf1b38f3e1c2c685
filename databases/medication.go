package databases

// go generate: mockery --name PatientMedicationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientMedicationName = "patient_medications"

// PatientMedicationDatabase contains the methods to use with the patient medication database
type PatientMedicationDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientMedication, error)
	InsertOne(context.Context, models.PatientMedication) (InsertOneResultHelper, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type patientMedicationDatabase struct {
	db DatabaseHelper
}

// NewPatientMedicationDatabase initializes a new instance of patient medication database with the provided db connection
func NewPatientMedicationDatabase(db DatabaseHelper) PatientMedicationDatabase {
	return &patientMedicationDatabase{
		db: db,
	}
}

func (m *patientMedicationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientMedication, error) {
	var meds []models.PatientMedication
	cur, err := m.db.Collection(patientMedicationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&meds)
	if err != nil {
		return nil, err
	}
	return meds, nil
}

func (m *patientMedicationDatabase) InsertOne(ctx context.Context, medication models.PatientMedication) (InsertOneResultHelper, error) {
	return m.db.Collection(patientMedicationName).InsertOne(ctx, medication)
}

func (m *patientMedicationDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return m.db.Collection(patientMedicationName).DeleteMany(ctx, filter, opts...)
}
