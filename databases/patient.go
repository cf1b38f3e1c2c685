package databases

// go generate: mockery --name PatientProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientProfileName = "patient_profiles"

// PatientProfileDatabase contains the methods to use with the patient profile database
type PatientProfileDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.PatientProfile, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientProfile, error)
	InsertOne(context.Context, models.PatientProfile) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type patientProfileDatabase struct {
	db DatabaseHelper
}

// NewPatientProfileDatabase initializes a new instance of patient profile database with the provided db connection
func NewPatientProfileDatabase(db DatabaseHelper) PatientProfileDatabase {
	return &patientProfileDatabase{
		db: db,
	}
}

func (p *patientProfileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PatientProfile, error) {
	patient := &models.PatientProfile{}
	err := p.db.Collection(patientProfileName).FindOne(ctx, filter, opts...).Decode(&patient)
	if err != nil {
		return nil, err
	}
	return patient, nil
}

func (p *patientProfileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientProfile, error) {
	var patients []models.PatientProfile
	cur, err := p.db.Collection(patientProfileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&patients)
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (p *patientProfileDatabase) InsertOne(ctx context.Context, patient models.PatientProfile) (InsertOneResultHelper, error) {
	return p.db.Collection(patientProfileName).InsertOne(ctx, patient)
}

func (p *patientProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return p.db.Collection(patientProfileName).UpdateOne(ctx, filter, update, opts...)
}

func (p *patientProfileDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return p.db.Collection(patientProfileName).DeleteOne(ctx, filter, opts...)
}
