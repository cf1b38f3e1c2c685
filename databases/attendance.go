package databases

// go generate: mockery --name NurseAttendanceDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseAttendanceName = "nurse_attendance"

// ErrAlreadyCheckedIn is returned when a check-in exists for the nurse on the
// given date.
var ErrAlreadyCheckedIn = errors.New("already checked in")

// NurseAttendanceDatabase contains the methods to use with the nurse attendance database
type NurseAttendanceDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseAttendance, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseAttendance, error)
	CheckIn(ctx context.Context, attendance models.NurseAttendance) (InsertOneResultHelper, error)
	CheckOut(ctx context.Context, nurseID primitive.ObjectID, date string, at time.Time) error
}

type nurseAttendanceDatabase struct {
	db DatabaseHelper
}

// NewNurseAttendanceDatabase initializes a new instance of nurse attendance database with the provided db connection
func NewNurseAttendanceDatabase(db DatabaseHelper) NurseAttendanceDatabase {
	return &nurseAttendanceDatabase{
		db: db,
	}
}

func (a *nurseAttendanceDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseAttendance, error) {
	attendance := &models.NurseAttendance{}
	err := a.db.Collection(nurseAttendanceName).FindOne(ctx, filter, opts...).Decode(&attendance)
	if err != nil {
		return nil, err
	}
	return attendance, nil
}

func (a *nurseAttendanceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseAttendance, error) {
	var records []models.NurseAttendance
	cur, err := a.db.Collection(nurseAttendanceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CheckIn inserts the day's attendance record. A record already present for
// (nurse, date) yields ErrAlreadyCheckedIn.
func (a *nurseAttendanceDatabase) CheckIn(ctx context.Context, attendance models.NurseAttendance) (InsertOneResultHelper, error) {
	coll := a.db.Collection(nurseAttendanceName)

	existing := &models.NurseAttendance{}
	err := coll.FindOne(ctx, bson.M{"nurse_id": attendance.NurseID, "date": attendance.Date}).Decode(&existing)
	if err == nil {
		return nil, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	return coll.InsertOne(ctx, attendance)
}

// CheckOut stamps the check-out time on the day's record. No record for the
// day is a silent no-op.
func (a *nurseAttendanceDatabase) CheckOut(ctx context.Context, nurseID primitive.ObjectID, date string, at time.Time) error {
	_, err := a.db.Collection(nurseAttendanceName).UpdateOne(ctx,
		bson.M{"nurse_id": nurseID, "date": date},
		bson.M{"$set": bson.M{"check_out": at}},
	)
	return err
}
