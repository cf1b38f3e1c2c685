package databases

// go generate: mockery --name NurseVisitDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseVisitName = "nurse_visits"

// NurseVisitDatabase contains the methods to use with the nurse visit database
type NurseVisitDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseVisit, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseVisit, error)
	InsertOne(context.Context, models.NurseVisit) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type nurseVisitDatabase struct {
	db DatabaseHelper
}

// NewNurseVisitDatabase initializes a new instance of nurse visit database with the provided db connection
func NewNurseVisitDatabase(db DatabaseHelper) NurseVisitDatabase {
	return &nurseVisitDatabase{
		db: db,
	}
}

func (v *nurseVisitDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseVisit, error) {
	visit := &models.NurseVisit{}
	err := v.db.Collection(nurseVisitName).FindOne(ctx, filter, opts...).Decode(&visit)
	if err != nil {
		return nil, err
	}
	return visit, nil
}

func (v *nurseVisitDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseVisit, error) {
	var visits []models.NurseVisit
	cur, err := v.db.Collection(nurseVisitName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&visits)
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (v *nurseVisitDatabase) InsertOne(ctx context.Context, visit models.NurseVisit) (InsertOneResultHelper, error) {
	return v.db.Collection(nurseVisitName).InsertOne(ctx, visit)
}

func (v *nurseVisitDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return v.db.Collection(nurseVisitName).UpdateOne(ctx, filter, update, opts...)
}
