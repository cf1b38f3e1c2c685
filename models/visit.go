package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visit states.
const (
	VisitScheduled = "SCHEDULED"
	VisitCompleted = "COMPLETED"
)

// NurseVisit holds the structure for the nurse_visits collection in mongo
type NurseVisit struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID      primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	PatientID    primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	ScheduledAt  time.Time          `json:"scheduled_at" bson:"scheduled_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Status       string             `json:"status" bson:"status"`
	LocationType string             `json:"location_type" bson:"location_type"`
	Notes        string             `json:"notes" bson:"notes"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// CreateVisitRequest schedules a nurse visit.
type CreateVisitRequest struct {
	NurseID      string    `json:"nurse_id"`
	PatientID    string    `json:"patient_id"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	LocationType string    `json:"location_type"`
	Notes        string    `json:"notes"`
}
