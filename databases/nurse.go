package databases

// go generate: mockery --name NurseProfileDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseProfileName = "nurse_profiles"

// NurseProfileDatabase contains the methods to use with the nurse profile database
type NurseProfileDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseProfile, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseProfile, error)
	InsertOne(context.Context, models.NurseProfile) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type nurseProfileDatabase struct {
	db DatabaseHelper
}

// NewNurseProfileDatabase initializes a new instance of nurse profile database with the provided db connection
func NewNurseProfileDatabase(db DatabaseHelper) NurseProfileDatabase {
	return &nurseProfileDatabase{
		db: db,
	}
}

func (n *nurseProfileDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseProfile, error) {
	nurse := &models.NurseProfile{}
	err := n.db.Collection(nurseProfileName).FindOne(ctx, filter, opts...).Decode(&nurse)
	if err != nil {
		return nil, err
	}
	return nurse, nil
}

func (n *nurseProfileDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseProfile, error) {
	var nurses []models.NurseProfile
	cur, err := n.db.Collection(nurseProfileName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&nurses)
	if err != nil {
		return nil, err
	}
	return nurses, nil
}

func (n *nurseProfileDatabase) InsertOne(ctx context.Context, nurse models.NurseProfile) (InsertOneResultHelper, error) {
	return n.db.Collection(nurseProfileName).InsertOne(ctx, nurse)
}

func (n *nurseProfileDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return n.db.Collection(nurseProfileName).UpdateOne(ctx, filter, update, opts...)
}

func (n *nurseProfileDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return n.db.Collection(nurseProfileName).DeleteOne(ctx, filter, opts...)
}
