package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint states.
const (
	ComplaintOpen       = "OPEN"
	ComplaintInProgress = "IN_PROGRESS"
	ComplaintResolved   = "RESOLVED"
)

// Complaint holds the structure for the complaints collection in mongo
type Complaint struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Subject   string             `json:"subject" bson:"subject"`
	Body      string             `json:"body" bson:"body"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ComplaintRequest files a new complaint.
type ComplaintRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComplaintStatusRequest moves a complaint through its states.
type ComplaintStatusRequest struct {
	Status string `json:"status"`
}
