package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

type fakeVerifier struct {
	err error
}

func (f fakeVerifier) GenerateOTP(ctx context.Context, aadhaarNumber string) (string, error) {
	return "ref-1", f.err
}

func (f fakeVerifier) VerifyOTP(ctx context.Context, referenceID, otp string) error {
	return f.err
}

func TestProcessJobSuccess(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	jobsConn := &mocks.CollectionHelper{}
	profilesConn := &mocks.CollectionHelper{}

	jobsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	profilesConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	dbHelper.On("Collection", "verification_jobs").Return(jobsConn)
	dbHelper.On("Collection", "nurse_profiles").Return(profilesConn)

	s := &Scheduler{
		JDB:      databases.NewVerificationJobDatabase(dbHelper),
		NDB:      databases.NewNurseProfileDatabase(dbHelper),
		Verifier: fakeVerifier{},
	}

	job := models.VerificationJob{
		ID:          primitive.NewObjectID(),
		NurseID:     primitive.NewObjectID(),
		ReferenceID: "ref-1",
		OTP:         "123456",
		Status:      models.JobPending,
		CreatedAt:   time.Now(),
	}

	ok := s.processJob(context.Background(), job)

	assert.True(t, ok)
	profilesConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
	jobsConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessJobFailure(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	jobsConn := &mocks.CollectionHelper{}
	profilesConn := &mocks.CollectionHelper{}

	jobsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	dbHelper.On("Collection", "verification_jobs").Return(jobsConn)
	dbHelper.On("Collection", "nurse_profiles").Return(profilesConn)

	s := &Scheduler{
		JDB:      databases.NewVerificationJobDatabase(dbHelper),
		NDB:      databases.NewNurseProfileDatabase(dbHelper),
		Verifier: fakeVerifier{err: errors.New("otp mismatch")},
	}

	job := models.VerificationJob{
		ID:      primitive.NewObjectID(),
		NurseID: primitive.NewObjectID(),
		Status:  models.JobPending,
	}

	ok := s.processJob(context.Background(), job)

	assert.False(t, ok)
	profilesConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
