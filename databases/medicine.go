package databases

// go generate: mockery --name MedicineDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const medicineName = "medicines"

// MedicineDatabase contains the methods to use with the medicine master database
type MedicineDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.Medicine, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Medicine, error)
	InsertOne(context.Context, models.Medicine) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type medicineDatabase struct {
	db DatabaseHelper
}

// NewMedicineDatabase initializes a new instance of medicine database with the provided db connection
func NewMedicineDatabase(db DatabaseHelper) MedicineDatabase {
	return &medicineDatabase{
		db: db,
	}
}

func (m *medicineDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Medicine, error) {
	medicine := &models.Medicine{}
	err := m.db.Collection(medicineName).FindOne(ctx, filter, opts...).Decode(&medicine)
	if err != nil {
		return nil, err
	}
	return medicine, nil
}

func (m *medicineDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Medicine, error) {
	var medicines []models.Medicine
	cur, err := m.db.Collection(medicineName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&medicines)
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

func (m *medicineDatabase) InsertOne(ctx context.Context, medicine models.Medicine) (InsertOneResultHelper, error) {
	return m.db.Collection(medicineName).InsertOne(ctx, medicine)
}

func (m *medicineDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return m.db.Collection(medicineName).UpdateOne(ctx, filter, update, opts...)
}

func (m *medicineDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return m.db.Collection(medicineName).DeleteOne(ctx, filter, opts...)
}
