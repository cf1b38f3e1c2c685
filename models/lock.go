package models

import "time"

// SchedulerLock holds the structure for the scheduler_locks collection in
// mongo. ExpireAt drives a TTL index so a crashed holder frees the lock.
type SchedulerLock struct {
	ID       string    `json:"_id" bson:"_id"`
	Holder   string    `json:"holder" bson:"holder"`
	ExpireAt time.Time `json:"expireAt" bson:"expireAt"`
}
