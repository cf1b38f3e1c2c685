package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StaffProfile holds the structure for the staff_profiles collection in mongo
type StaffProfile struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Department string             `json:"department" bson:"department"`
	Role       string             `json:"role" bson:"role"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}
