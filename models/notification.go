package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification holds the structure for the notifications collection in mongo
type Notification struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Title     string             `json:"title" bson:"title"`
	Body      string             `json:"body" bson:"body"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PushToken holds the structure for the push_tokens collection in mongo,
// one device token per record.
type PushToken struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Token     string             `json:"token" bson:"token"`
	Platform  string             `json:"platform" bson:"platform"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// RegisterPushTokenRequest registers a device token for the caller.
type RegisterPushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// BroadcastRequest sends a notification to every account with a given role,
// or to all accounts when Role is empty.
type BroadcastRequest struct {
	Role  string `json:"role"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
