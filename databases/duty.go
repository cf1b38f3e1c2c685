package databases

// go generate: mockery --name NurseDutyDatabase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const nurseDutyName = "nurse_duties"

// ErrNurseOnDuty is returned when an assignment requires the nurse to be free
// but an active duty already exists.
var ErrNurseOnDuty = errors.New("nurse already has an active duty")

// NurseDutyDatabase contains the methods to use with the nurse duty database
type NurseDutyDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.NurseDuty, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.NurseDuty, error)
	AssignDuty(ctx context.Context, duty models.NurseDuty, requireNurseFree bool) (InsertOneResultHelper, error)
	DeactivateForNurse(ctx context.Context, nurseID primitive.ObjectID) (int64, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type nurseDutyDatabase struct {
	db DatabaseHelper
}

// NewNurseDutyDatabase initializes a new instance of nurse duty database with the provided db connection
func NewNurseDutyDatabase(db DatabaseHelper) NurseDutyDatabase {
	return &nurseDutyDatabase{
		db: db,
	}
}

func (d *nurseDutyDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.NurseDuty, error) {
	duty := &models.NurseDuty{}
	err := d.db.Collection(nurseDutyName).FindOne(ctx, filter, opts...).Decode(&duty)
	if err != nil {
		return nil, err
	}
	return duty, nil
}

func (d *nurseDutyDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.NurseDuty, error) {
	var duties []models.NurseDuty
	cur, err := d.db.Collection(nurseDutyName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&duties)
	if err != nil {
		return nil, err
	}
	return duties, nil
}

// AssignDuty deactivates any active duty held by the nurse or the patient and
// inserts the new duty. With requireNurseFree set, an existing active duty for
// the nurse aborts the assignment with ErrNurseOnDuty instead. The
// deactivate-then-insert sequence is not transactional; concurrent calls for
// the same nurse or patient can race.
func (d *nurseDutyDatabase) AssignDuty(ctx context.Context, duty models.NurseDuty, requireNurseFree bool) (InsertOneResultHelper, error) {
	coll := d.db.Collection(nurseDutyName)

	if requireNurseFree {
		n, err := coll.CountDocuments(ctx, bson.M{"nurse_id": duty.NurseID, "active": true})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrNurseOnDuty
		}
	}

	deactivate := bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}}
	_, err := coll.UpdateMany(ctx, bson.M{
		"active": true,
		"$or": []bson.M{
			{"nurse_id": duty.NurseID},
			{"patient_id": duty.PatientID},
		},
	}, deactivate)
	if err != nil {
		return nil, err
	}

	return coll.InsertOne(ctx, duty)
}

// DeactivateForNurse clears every active duty for a nurse, used when consent
// is revoked or the nurse is removed.
func (d *nurseDutyDatabase) DeactivateForNurse(ctx context.Context, nurseID primitive.ObjectID) (int64, error) {
	return d.db.Collection(nurseDutyName).UpdateMany(ctx,
		bson.M{"nurse_id": nurseID, "active": true},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
	)
}

func (d *nurseDutyDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return d.db.Collection(nurseDutyName).UpdateOne(ctx, filter, update, opts...)
}

func (d *nurseDutyDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return d.db.Collection(nurseDutyName).CountDocuments(ctx, filter, opts...)
}
