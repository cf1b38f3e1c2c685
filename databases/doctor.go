package databases

// go generate: mockery --name DoctorProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const doctorProfileName = "doctor_profiles"

// DoctorProfileDatabase contains the methods to use with the doctor profile database
type DoctorProfileDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.DoctorProfile, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.DoctorProfile, error)
	InsertOne(context.Context, models.DoctorProfile) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type doctorProfileDatabase struct {
	db DatabaseHelper
}

// NewDoctorProfileDatabase initializes a new instance of doctor profile database with the provided db connection
func NewDoctorProfileDatabase(db DatabaseHelper) DoctorProfileDatabase {
	return &doctorProfileDatabase{
		db: db,
	}
}

func (d *doctorProfileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.DoctorProfile, error) {
	doctor := &models.DoctorProfile{}
	err := d.db.Collection(doctorProfileName).FindOne(ctx, filter, opts...).Decode(&doctor)
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

func (d *doctorProfileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DoctorProfile, error) {
	var doctors []models.DoctorProfile
	cur, err := d.db.Collection(doctorProfileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&doctors)
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (d *doctorProfileDatabase) InsertOne(ctx context.Context, doctor models.DoctorProfile) (InsertOneResultHelper, error) {
	return d.db.Collection(doctorProfileName).InsertOne(ctx, doctor)
}

func (d *doctorProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return d.db.Collection(doctorProfileName).UpdateOne(ctx, filter, update, opts...)
}
