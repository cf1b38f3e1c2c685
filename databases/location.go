package databases

// go generate: mockery --name NurseLocationDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseLocationName = "nurse_live_locations"

// NurseLocationDatabase contains the methods to use with the nurse live location database
type NurseLocationDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseLiveLocation, error)
	Upsert(ctx context.Context, nurseID primitive.ObjectID, latitude, longitude float64, at time.Time) error
}

type nurseLocationDatabase struct {
	db DatabaseHelper
}

// NewNurseLocationDatabase initializes a new instance of nurse location database with the provided db connection
func NewNurseLocationDatabase(db DatabaseHelper) NurseLocationDatabase {
	return &nurseLocationDatabase{
		db: db,
	}
}

func (l *nurseLocationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseLiveLocation, error) {
	location := &models.NurseLiveLocation{}
	err := l.db.Collection(nurseLocationName).FindOne(ctx, filter, opts...).Decode(&location)
	if err != nil {
		return nil, err
	}
	return location, nil
}

// Upsert writes the single live-location document for a nurse, no history.
func (l *nurseLocationDatabase) Upsert(ctx context.Context, nurseID primitive.ObjectID, latitude, longitude float64, at time.Time) error {
	opts := options.Update().SetUpsert(true)
	_, err := l.db.Collection(nurseLocationName).UpdateOne(ctx,
		bson.M{"nurse_id": nurseID},
		bson.M{"$set": bson.M{
			"latitude":   latitude,
			"longitude":  longitude,
			"updated_at": at,
		}},
		opts,
	)
	return err
}
