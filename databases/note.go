package databases

// go generate: mockery --name PatientNoteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const patientNoteName = "patient_daily_notes"

// PatientNoteDatabase contains the methods to use with the patient daily note database
type PatientNoteDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PatientDailyNote, error)
	InsertOne(context.Context, models.PatientDailyNote) (InsertOneResultHelper, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type patientNoteDatabase struct {
	db DatabaseHelper
}

// NewPatientNoteDatabase initializes a new instance of patient note database with the provided db connection
func NewPatientNoteDatabase(db DatabaseHelper) PatientNoteDatabase {
	return &patientNoteDatabase{
		db: db,
	}
}

func (n *patientNoteDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PatientDailyNote, error) {
	var notes []models.PatientDailyNote
	cur, err := n.db.Collection(patientNoteName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&notes)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (n *patientNoteDatabase) InsertOne(ctx context.Context, note models.PatientDailyNote) (InsertOneResultHelper, error) {
	return n.db.Collection(patientNoteName).InsertOne(ctx, note)
}

func (n *patientNoteDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return n.db.Collection(patientNoteName).DeleteMany(ctx, filter, opts...)
}
