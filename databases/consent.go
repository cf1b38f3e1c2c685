package databases

// go generate: mockery --name NurseConsentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseConsentName = "nurse_consents"

// NurseConsentDatabase contains the methods to use with the nurse consent database
type NurseConsentDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseConsent, error)
	FindLatest(ctx context.Context, nurseID primitive.ObjectID) (*models.NurseConsent, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseConsent, error)
	InsertOne(context.Context, models.NurseConsent) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type nurseConsentDatabase struct {
	db DatabaseHelper
}

// NewNurseConsentDatabase initializes a new instance of nurse consent database with the provided db connection
func NewNurseConsentDatabase(db DatabaseHelper) NurseConsentDatabase {
	return &nurseConsentDatabase{
		db: db,
	}
}

func (c *nurseConsentDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseConsent, error) {
	consent := &models.NurseConsent{}
	err := c.db.Collection(nurseConsentName).FindOne(ctx, filter, opts...).Decode(&consent)
	if err != nil {
		return nil, err
	}
	return consent, nil
}

// FindLatest returns the most recently created consent for a nurse. History
// is not modeled; the latest record is the meaningful one.
func (c *nurseConsentDatabase) FindLatest(ctx context.Context, nurseID primitive.ObjectID) (*models.NurseConsent, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	return c.FindOne(ctx, bson.M{"nurse_id": nurseID}, opts)
}

func (c *nurseConsentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseConsent, error) {
	var consents []models.NurseConsent
	cur, err := c.db.Collection(nurseConsentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&consents)
	if err != nil {
		return nil, err
	}
	return consents, nil
}

func (c *nurseConsentDatabase) InsertOne(ctx context.Context, consent models.NurseConsent) (InsertOneResultHelper, error) {
	return c.db.Collection(nurseConsentName).InsertOne(ctx, consent)
}

func (c *nurseConsentDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return c.db.Collection(nurseConsentName).UpdateOne(ctx, filter, update, opts...)
}

func (c *nurseConsentDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(nurseConsentName).CountDocuments(ctx, filter, opts...)
}
