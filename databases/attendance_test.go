package databases_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func TestNurseAttendanceDatabase_CheckInConflict(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}

	// a record already exists for (nurse, date)
	srHelper.On("Decode", mock.Anything).Return(nil)
	collectionHelper.On("FindOne", mock.Anything, mock.Anything).Return(srHelper)
	dbHelper.On("Collection", "nurse_attendance").Return(collectionHelper)

	attendanceDba := databases.NewNurseAttendanceDatabase(dbHelper)

	res, err := attendanceDba.CheckIn(context.Background(), models.NurseAttendance{
		NurseID: primitive.NewObjectID(),
		Date:    "2026-09-01",
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, databases.ErrAlreadyCheckedIn)
	collectionHelper.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestNurseAttendanceDatabase_CheckInFresh(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	srHelper := &mocks.SingleResultHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	newID := primitive.NewObjectID()
	srHelper.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	insertResult.On("Decode").Return(newID)
	collectionHelper.On("FindOne", mock.Anything, mock.Anything).Return(srHelper)
	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	dbHelper.On("Collection", "nurse_attendance").Return(collectionHelper)

	attendanceDba := databases.NewNurseAttendanceDatabase(dbHelper)

	res, err := attendanceDba.CheckIn(context.Background(), models.NurseAttendance{
		NurseID: primitive.NewObjectID(),
		Date:    "2026-09-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, newID, res.Decode())
}

func TestNurseAttendanceDatabase_CheckOut(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	dbHelper.On("Collection", "nurse_attendance").Return(collectionHelper)

	attendanceDba := databases.NewNurseAttendanceDatabase(dbHelper)

	err := attendanceDba.CheckOut(context.Background(), primitive.NewObjectID(), "2026-09-01", time.Now())

	assert.NoError(t, err)
}
