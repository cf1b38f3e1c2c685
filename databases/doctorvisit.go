package databases

// go generate: mockery --name DoctorVisitDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const doctorVisitName = "doctor_visits"

// DoctorVisitDatabase contains the methods to use with the doctor visit database
type DoctorVisitDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.DoctorVisit, error)
	InsertOne(context.Context, models.DoctorVisit) (InsertOneResultHelper, error)
}

type doctorVisitDatabase struct {
	db DatabaseHelper
}

// NewDoctorVisitDatabase initializes a new instance of doctor visit database with the provided db connection
func NewDoctorVisitDatabase(db DatabaseHelper) DoctorVisitDatabase {
	return &doctorVisitDatabase{
		db: db,
	}
}

func (d *doctorVisitDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DoctorVisit, error) {
	var visits []models.DoctorVisit
	cur, err := d.db.Collection(doctorVisitName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&visits)
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (d *doctorVisitDatabase) InsertOne(ctx context.Context, visit models.DoctorVisit) (InsertOneResultHelper, error) {
	return d.db.Collection(doctorVisitName).InsertOne(ctx, visit)
}
