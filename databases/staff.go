package databases

// go generate: mockery --name StaffDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const staffProfileName = "staff_profiles"

// StaffDatabase contains the methods to use with the staff profile database
type StaffDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.StaffProfile, error)
	InsertOne(context.Context, models.StaffProfile) (InsertOneResultHelper, error)
}

type staffDatabase struct {
	db DatabaseHelper
}

// NewStaffDatabase initializes a new instance of staff database with the provided db connection
func NewStaffDatabase(db DatabaseHelper) StaffDatabase {
	return &staffDatabase{
		db: db,
	}
}

func (s *staffDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StaffProfile, error) {
	var staff []models.StaffProfile
	cur, err := s.db.Collection(staffProfileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&staff)
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *staffDatabase) InsertOne(ctx context.Context, staff models.StaffProfile) (InsertOneResultHelper, error) {
	return s.db.Collection(staffProfileName).InsertOne(ctx, staff)
}
