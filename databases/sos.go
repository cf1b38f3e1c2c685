package databases

// go generate: mockery --name SOSAlertDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const sosAlertName = "sos_alerts"

// SOSAlertDatabase contains the methods to use with the sos alert database
type SOSAlertDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.SOSAlert, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.SOSAlert, error)
	InsertOne(context.Context, models.SOSAlert) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type sosAlertDatabase struct {
	db DatabaseHelper
}

// NewSOSAlertDatabase initializes a new instance of sos alert database with the provided db connection
func NewSOSAlertDatabase(db DatabaseHelper) SOSAlertDatabase {
	return &sosAlertDatabase{
		db: db,
	}
}

func (s *sosAlertDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.SOSAlert, error) {
	alert := &models.SOSAlert{}
	err := s.db.Collection(sosAlertName).FindOne(ctx, filter, opts...).Decode(&alert)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *sosAlertDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SOSAlert, error) {
	var alerts []models.SOSAlert
	cur, err := s.db.Collection(sosAlertName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&alerts)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (s *sosAlertDatabase) InsertOne(ctx context.Context, alert models.SOSAlert) (InsertOneResultHelper, error) {
	return s.db.Collection(sosAlertName).InsertOne(ctx, alert)
}

func (s *sosAlertDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return s.db.Collection(sosAlertName).UpdateOne(ctx, filter, update, opts...)
}
