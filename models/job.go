package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification job states.
const (
	JobPending   = "PENDING"
	JobCompleted = "COMPLETED"
	JobFailed    = "FAILED"
)

// VerificationJob holds the structure for the verification_jobs collection in
// mongo. Jobs are queued by the aadhaar verify endpoint and drained by the
// scheduler worker.
type VerificationJob struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID     primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	ReferenceID string             `json:"reference_id" bson:"reference_id"`
	OTP         string             `json:"-" bson:"otp"`
	Status      string             `json:"status" bson:"status"`
	Error       string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}
