package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
)

func TestSchedulerLockDatabase_TryAcquireLock(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	collectionHelper.On("DeleteMany", mock.Anything, mock.Anything).Return(int64(0), nil)
	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

	lockDba := databases.NewSchedulerLockDatabase(dbHelper)

	acquired, err := lockDba.TryAcquireLock(context.Background(), "verification_job", "instance-1", 10*time.Minute)

	assert.NoError(t, err)
	assert.True(t, acquired)
}

func TestSchedulerLockDatabase_TryAcquireLockHeld(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}

	collectionHelper.On("DeleteMany", mock.Anything, mock.Anything).Return(int64(0), nil)
	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)
	dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

	lockDba := databases.NewSchedulerLockDatabase(dbHelper)

	acquired, err := lockDba.TryAcquireLock(context.Background(), "verification_job", "instance-2", 10*time.Minute)

	assert.NoError(t, err)
	assert.False(t, acquired)
}

func TestSchedulerLockDatabase_ReleaseLock(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	dbHelper.On("Collection", "scheduler_locks").Return(collectionHelper)

	lockDba := databases.NewSchedulerLockDatabase(dbHelper)

	err := lockDba.ReleaseLock(context.Background(), "verification_job", "instance-1")

	assert.NoError(t, err)
}
