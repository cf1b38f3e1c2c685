package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NurseLiveLocation holds the structure for the nurse_live_locations
// collection in mongo. One document per nurse, upserted on every ping.
type NurseLiveLocation struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID   primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// LocationUpdateRequest is the nurse location ping payload.
type LocationUpdateRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationResponse is the admin-facing tracking result.
type LocationResponse struct {
	Active    bool       `json:"active"`
	Latitude  float64    `json:"latitude,omitempty"`
	Longitude float64    `json:"longitude,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
