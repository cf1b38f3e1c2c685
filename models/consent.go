package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Consent lifecycle states.
const (
	ConsentPending = "PENDING"
	ConsentSigned  = "SIGNED"
	ConsentRevoked = "REVOKED"
)

// ConsentTerms are the admin-set duty/salary terms a nurse signs off on.
type ConsentTerms struct {
	ShiftType    string  `json:"shift_type" bson:"shift_type"`
	DutyHours    int     `json:"duty_hours" bson:"duty_hours"`
	SalaryType   string  `json:"salary_type" bson:"salary_type"`
	SalaryAmount float64 `json:"salary_amount" bson:"salary_amount"`
	PaymentMode  string  `json:"payment_mode" bson:"payment_mode"`
	SalaryDate   int     `json:"salary_date" bson:"salary_date"`
}

// NurseConsent holds the structure for the nurse_consents collection in mongo
type NurseConsent struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID       primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	Terms         ConsentTerms       `json:"terms" bson:"terms"`
	Status        string             `json:"status" bson:"status"`
	SignaturePath string             `json:"signature_path,omitempty" bson:"signature_path,omitempty"`
	SignedAt      *time.Time         `json:"signed_at,omitempty" bson:"signed_at,omitempty"`
	RevokedAt     *time.Time         `json:"revoked_at,omitempty" bson:"revoked_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// SignConsentRequest carries the signature image reference for consent signing.
type SignConsentRequest struct {
	SignaturePath string `json:"signature_path"`
}
