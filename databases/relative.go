package databases

// go generate: mockery --name RelativeAccessDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const relativeAccessName = "relative_access"

// RelativeAccessDatabase contains the methods to use with the relative access database
type RelativeAccessDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.RelativeAccess, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.RelativeAccess, error)
	InsertOne(context.Context, models.RelativeAccess) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type relativeAccessDatabase struct {
	db DatabaseHelper
}

// NewRelativeAccessDatabase initializes a new instance of relative access database with the provided db connection
func NewRelativeAccessDatabase(db DatabaseHelper) RelativeAccessDatabase {
	return &relativeAccessDatabase{
		db: db,
	}
}

func (r *relativeAccessDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RelativeAccess, error) {
	access := &models.RelativeAccess{}
	err := r.db.Collection(relativeAccessName).FindOne(ctx, filter, opts...).Decode(&access)
	if err != nil {
		return nil, err
	}
	return access, nil
}

func (r *relativeAccessDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RelativeAccess, error) {
	var grants []models.RelativeAccess
	cur, err := r.db.Collection(relativeAccessName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&grants)
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *relativeAccessDatabase) InsertOne(ctx context.Context, access models.RelativeAccess) (InsertOneResultHelper, error) {
	return r.db.Collection(relativeAccessName).InsertOne(ctx, access)
}

func (r *relativeAccessDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return r.db.Collection(relativeAccessName).DeleteOne(ctx, filter, opts...)
}
