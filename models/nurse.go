package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Nurse verification states.
const (
	VerificationPending  = "PENDING"
	VerificationApproved = "APPROVED"
	VerificationRejected = "REJECTED"
)

// Police verification states.
const (
	PolicePending = "PENDING"
	PoliceClear   = "CLEAR"
	PoliceFailed  = "FAILED"
)

// Reason codes returned when duty-dependent capabilities are locked.
const (
	ReasonConsentNotSigned          = "CONSENT_NOT_SIGNED"
	ReasonPoliceVerificationPending = "POLICE_VERIFICATION_PENDING"
	ReasonAadhaarNotVerified        = "AADHAAR_NOT_VERIFIED"
)

// NurseProfile holds the structure for the nurse_profiles collection in mongo
type NurseProfile struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"user_id" bson:"user_id"`
	Category           string             `json:"category" bson:"category"`
	Qualification      string             `json:"qualification" bson:"qualification"`
	ExperienceYears    int                `json:"experience_years" bson:"experience_years"`
	VerificationStatus string             `json:"verification_status" bson:"verification_status"`
	PoliceStatus       string             `json:"police_verification_status" bson:"police_verification_status"`
	AadhaarVerified    bool               `json:"aadhaar_verified" bson:"aadhaar_verified"`
	AadhaarNumber      string             `json:"-" bson:"aadhaar_number"`
	Documents          []DocumentRef      `json:"documents" bson:"documents"`
	SignaturePath      string             `json:"signature_path" bson:"signature_path"`
	JoiningDate        time.Time          `json:"joining_date" bson:"joining_date"`
	ResignationDate    *time.Time         `json:"resignation_date,omitempty" bson:"resignation_date,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updated_at"`
}

// DocumentRef points at an uploaded document on the uploads root.
type DocumentRef struct {
	Type string `json:"type" bson:"type"`
	Path string `json:"path" bson:"path"`
}

// NurseSignupRequest is the self-signup payload.
type NurseSignupRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Category        string `json:"category"`
	Qualification   string `json:"qualification"`
	ExperienceYears int    `json:"experience_years"`
}

// NurseAdminUpdateRequest carries the admin-editable profile fields plus the
// duty/salary terms stored on the nurse's consent.
type NurseAdminUpdateRequest struct {
	Category        string        `json:"category"`
	Qualification   string        `json:"qualification"`
	ExperienceYears int           `json:"experience_years"`
	Terms           *ConsentTerms `json:"terms,omitempty"`
}

// PoliceStatusRequest sets the police verification outcome for a nurse.
type PoliceStatusRequest struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// DutyEligibility reports whether duty-dependent capabilities are unlocked
// and, when locked, the machine-readable reason.
type DutyEligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
