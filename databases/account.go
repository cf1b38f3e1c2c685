package databases

// go generate: mockery --name AccountDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const userName = "users"

// AccountDatabase contains the methods to use with the users database
type AccountDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Account, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Account, error)
	InsertOne(context.Context, models.Account) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type accountDatabase struct {
	db DatabaseHelper
}

// NewAccountDatabase initializes a new instance of account database with the provided db connection
func NewAccountDatabase(db DatabaseHelper) AccountDatabase {
	return &accountDatabase{
		db: db,
	}
}

func (a *accountDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Account, error) {
	account := &models.Account{}
	err := a.db.Collection(userName).FindOne(ctx, filter, opts...).Decode(&account)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (a *accountDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Account, error) {
	var accounts []models.Account
	cur, err := a.db.Collection(userName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&accounts)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (a *accountDatabase) InsertOne(ctx context.Context, account models.Account) (InsertOneResultHelper, error) {
	return a.db.Collection(userName).InsertOne(ctx, account)
}

func (a *accountDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return a.db.Collection(userName).UpdateOne(ctx, filter, update, opts...)
}

func (a *accountDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return a.db.Collection(userName).DeleteOne(ctx, filter, opts...)
}

func (a *accountDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return a.db.Collection(userName).CountDocuments(ctx, filter, opts...)
}
