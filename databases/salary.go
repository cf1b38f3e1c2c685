package databases

// go generate: mockery --name NurseSalaryDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseSalaryName = "nurse_salaries"

// NurseSalaryDatabase contains the methods to use with the nurse salary database
type NurseSalaryDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseSalary, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseSalary, error)
	InsertOne(context.Context, models.NurseSalary) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type nurseSalaryDatabase struct {
	db DatabaseHelper
}

// NewNurseSalaryDatabase initializes a new instance of nurse salary database with the provided db connection
func NewNurseSalaryDatabase(db DatabaseHelper) NurseSalaryDatabase {
	return &nurseSalaryDatabase{
		db: db,
	}
}

func (s *nurseSalaryDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseSalary, error) {
	salary := &models.NurseSalary{}
	err := s.db.Collection(nurseSalaryName).FindOne(ctx, filter, opts...).Decode(&salary)
	if err != nil {
		return nil, err
	}
	return salary, nil
}

func (s *nurseSalaryDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseSalary, error) {
	var salaries []models.NurseSalary
	cur, err := s.db.Collection(nurseSalaryName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&salaries)
	if err != nil {
		return nil, err
	}
	return salaries, nil
}

func (s *nurseSalaryDatabase) InsertOne(ctx context.Context, salary models.NurseSalary) (InsertOneResultHelper, error) {
	return s.db.Collection(nurseSalaryName).InsertOne(ctx, salary)
}

func (s *nurseSalaryDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return s.db.Collection(nurseSalaryName).UpdateOne(ctx, filter, update, opts...)
}
