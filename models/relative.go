package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelativeAccess holds the structure for the relative_access collection in
// mongo, granting a relative account read access to a patient.
type RelativeAccess struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID  primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	RelativeID primitive.ObjectID `json:"relative_id" bson:"relative_id"`
	Relation   string             `json:"relation" bson:"relation"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// RelativeAccessRequest grants a relative access to a patient.
type RelativeAccessRequest struct {
	RelativeID string `json:"relative_id"`
	Relation   string `json:"relation"`
}
