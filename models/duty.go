package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Duty location kinds.
const (
	DutyLocationHospital = "HOSPITAL"
	DutyLocationHome     = "HOME"
)

// NurseDuty holds the structure for the nurse_duties collection in mongo
type NurseDuty struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID      primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	PatientID    primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	ShiftType    string             `json:"shift_type" bson:"shift_type"`
	StartTime    time.Time          `json:"start_time" bson:"start_time"`
	EndTime      time.Time          `json:"end_time" bson:"end_time"`
	LocationType string             `json:"location_type" bson:"location_type"`
	Ward         string             `json:"ward,omitempty" bson:"ward,omitempty"`
	Room         string             `json:"room,omitempty" bson:"room,omitempty"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty"`
	Active       bool               `json:"active" bson:"active"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// AssignDutyRequest is the payload for duty assignment, admin or
// patient-initiated.
type AssignDutyRequest struct {
	NurseID      string    `json:"nurse_id"`
	PatientID    string    `json:"patient_id"`
	ShiftType    string    `json:"shift_type"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	LocationType string    `json:"location_type"`
	Ward         string    `json:"ward,omitempty"`
	Room         string    `json:"room,omitempty"`
	Address      string    `json:"address,omitempty"`
}
