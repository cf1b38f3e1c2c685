package databases

// go generate: mockery --name SchedulerLockDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/wecarehhcs/homecare-api/models"
)

const schedulerLockName = "scheduler_locks"

// SchedulerLockDatabase contains the methods to use with the scheduler lock
// database. Locks rely on a TTL index on expireAt so a crashed holder's lock
// drops off on its own.
type SchedulerLockDatabase interface {
	TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, holder string) error
}

type schedulerLockDatabase struct {
	db DatabaseHelper
}

// NewSchedulerLockDatabase initializes a new instance of scheduler lock database with the provided db connection
func NewSchedulerLockDatabase(db DatabaseHelper) SchedulerLockDatabase {
	return &schedulerLockDatabase{
		db: db,
	}
}

// TryAcquireLock inserts the lock document for name. A duplicate key error
// means another holder has it; expired locks are reaped first.
func (l *schedulerLockDatabase) TryAcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	coll := l.db.Collection(schedulerLockName)

	_, err := coll.DeleteMany(ctx, bson.M{"_id": name, "expireAt": bson.M{"$lt": time.Now()}})
	if err != nil {
		return false, err
	}

	_, err = coll.InsertOne(ctx, models.SchedulerLock{
		ID:       name,
		Holder:   holder,
		ExpireAt: time.Now().Add(ttl),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ReleaseLock frees the lock only if this holder still owns it.
func (l *schedulerLockDatabase) ReleaseLock(ctx context.Context, name, holder string) error {
	return l.db.Collection(schedulerLockName).DeleteOne(ctx, bson.M{"_id": name, "holder": holder})
}
