package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles.
const (
	RoleAdmin    = "ADMIN"
	RoleNurse    = "NURSE"
	RoleDoctor   = "DOCTOR"
	RolePatient  = "PATIENT"
	RoleRelative = "RELATIVE"
	RoleStaff    = "STAFF"
)

// Account holds the structure for the users collection in mongo
type Account struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Phone        string             `json:"phone" bson:"phone"`
	Email        string             `json:"email" bson:"email"`
	Role         string             `json:"role" bson:"role"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
	TokenVersion int                `json:"-" bson:"token_version"`
	OTPSessionID string             `json:"-" bson:"otp_session_id"`
	OTPExpiresAt time.Time          `json:"-" bson:"otp_expires_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// SendOTPRequest is the payload to request an SMS OTP for a phone number.
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest is the payload to redeem an SMS OTP for a token.
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// PasswordLoginRequest is the payload for phone/password login.
type PasswordLoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// TokenResponse is returned by every successful login path.
type TokenResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
