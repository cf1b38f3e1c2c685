package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SOS alert states.
const (
	SOSActive   = "ACTIVE"
	SOSResolved = "RESOLVED"
)

// SOSAlert holds the structure for the sos_alerts collection in mongo
type SOSAlert struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID  primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	Latitude   float64            `json:"latitude" bson:"latitude"`
	Longitude  float64            `json:"longitude" bson:"longitude"`
	Message    string             `json:"message" bson:"message"`
	Status     string             `json:"status" bson:"status"`
	ResolvedAt *time.Time         `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// SOSRequest triggers an SOS alert for the calling patient.
type SOSRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Message   string  `json:"message"`
}
