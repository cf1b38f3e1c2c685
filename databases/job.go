package databases

// go generate: mockery --name VerificationJobDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const verificationJobName = "verification_jobs"

// VerificationJobDatabase contains the methods to use with the verification job database
type VerificationJobDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.VerificationJob, error)
	InsertOne(context.Context, models.VerificationJob) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type verificationJobDatabase struct {
	db DatabaseHelper
}

// NewVerificationJobDatabase initializes a new instance of verification job database with the provided db connection
func NewVerificationJobDatabase(db DatabaseHelper) VerificationJobDatabase {
	return &verificationJobDatabase{
		db: db,
	}
}

func (j *verificationJobDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.VerificationJob, error) {
	var jobs []models.VerificationJob
	cur, err := j.db.Collection(verificationJobName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&jobs)
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (j *verificationJobDatabase) InsertOne(ctx context.Context, job models.VerificationJob) (InsertOneResultHelper, error) {
	return j.db.Collection(verificationJobName).InsertOne(ctx, job)
}

func (j *verificationJobDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return j.db.Collection(verificationJobName).UpdateOne(ctx, filter, update, opts...)
}
