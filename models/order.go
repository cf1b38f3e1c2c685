package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment order states.
const (
	OrderCreated = "CREATED"
	OrderPaid    = "PAID"
	OrderFailed  = "FAILED"
)

// PaymentOrder holds the structure for the payment_orders collection in
// mongo, one per gateway checkout session.
type PaymentOrder struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	BillID    primitive.ObjectID `json:"bill_id" bson:"bill_id"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	SessionID string             `json:"session_id" bson:"session_id"`
	Amount    float64            `json:"amount" bson:"amount"`
	Currency  string             `json:"currency" bson:"currency"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CheckoutRequest creates a gateway checkout session for a bill.
type CheckoutRequest struct {
	BillID string `json:"bill_id"`
}
