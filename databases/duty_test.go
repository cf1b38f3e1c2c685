package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/databases/mocks"
	"github.com/wecarehhcs/homecare-api/models"
)

func TestNurseDutyDatabase_AssignDutyNurseBusy(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)
	dbHelper.On("Collection", "nurse_duties").Return(collectionHelper)

	dutyDba := databases.NewNurseDutyDatabase(dbHelper)

	duty := models.NurseDuty{
		NurseID:   primitive.NewObjectID(),
		PatientID: primitive.NewObjectID(),
		Active:    true,
	}
	res, err := dutyDba.AssignDuty(context.Background(), duty, true)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, databases.ErrNurseOnDuty)
	collectionHelper.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	collectionHelper.AssertNotCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestNurseDutyDatabase_AssignDutyNurseFree(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	newID := primitive.NewObjectID()
	insertResult.On("Decode").Return(newID)

	collectionHelper.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	collectionHelper.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	dbHelper.On("Collection", "nurse_duties").Return(collectionHelper)

	dutyDba := databases.NewNurseDutyDatabase(dbHelper)

	duty := models.NurseDuty{
		NurseID:   primitive.NewObjectID(),
		PatientID: primitive.NewObjectID(),
		Active:    true,
	}
	res, err := dutyDba.AssignDuty(context.Background(), duty, true)

	assert.NoError(t, err)
	assert.Equal(t, newID, res.Decode())
	collectionHelper.AssertCalled(t, "UpdateMany", mock.Anything, mock.Anything, mock.Anything)
}

func TestNurseDutyDatabase_AssignDutySkipsFreeCheck(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}
	insertResult := &mocks.InsertOneResultHelper{}

	insertResult.On("Decode").Return(primitive.NewObjectID())

	collectionHelper.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(int64(2), nil)
	collectionHelper.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	dbHelper.On("Collection", "nurse_duties").Return(collectionHelper)

	dutyDba := databases.NewNurseDutyDatabase(dbHelper)

	duty := models.NurseDuty{
		NurseID:   primitive.NewObjectID(),
		PatientID: primitive.NewObjectID(),
		Active:    true,
	}
	_, err := dutyDba.AssignDuty(context.Background(), duty, false)

	assert.NoError(t, err)
	collectionHelper.AssertNotCalled(t, "CountDocuments", mock.Anything, mock.Anything)
}

func TestNurseDutyDatabase_AssignDutyCountError(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), errors.New("mocked-error"))
	dbHelper.On("Collection", "nurse_duties").Return(collectionHelper)

	dutyDba := databases.NewNurseDutyDatabase(dbHelper)

	_, err := dutyDba.AssignDuty(context.Background(), models.NurseDuty{}, true)

	assert.EqualError(t, err, "mocked-error")
}

func TestNurseDutyDatabase_DeactivateForNurse(t *testing.T) {
	dbHelper := &mocks.DatabaseHelper{}
	collectionHelper := &mocks.CollectionHelper{}

	collectionHelper.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(int64(2), nil)
	dbHelper.On("Collection", "nurse_duties").Return(collectionHelper)

	dutyDba := databases.NewNurseDutyDatabase(dbHelper)

	modified, err := dutyDba.DeactivateForNurse(context.Background(), primitive.NewObjectID())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), modified)
}
