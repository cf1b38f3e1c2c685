package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DoctorProfile holds the structure for the doctor_profiles collection in mongo
type DoctorProfile struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user_id"`
	Specialization  string             `json:"specialization" bson:"specialization"`
	Qualification   string             `json:"qualification" bson:"qualification"`
	ExperienceYears int                `json:"experience_years" bson:"experience_years"`
	Available       bool               `json:"available" bson:"available"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// DoctorVisit holds the structure for the doctor_visits collection in mongo
type DoctorVisit struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	DoctorID     primitive.ObjectID `json:"doctor_id" bson:"doctor_id"`
	PatientID    primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	VisitedAt    time.Time          `json:"visited_at" bson:"visited_at"`
	Diagnosis    string             `json:"diagnosis" bson:"diagnosis"`
	Prescription string             `json:"prescription" bson:"prescription"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// CreateDoctorRequest registers a doctor account and profile.
type CreateDoctorRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Specialization  string `json:"specialization"`
	Qualification   string `json:"qualification"`
	ExperienceYears int    `json:"experience_years"`
}

// DoctorVisitRequest records a doctor visit.
type DoctorVisitRequest struct {
	PatientID    string    `json:"patient_id"`
	VisitedAt    time.Time `json:"visited_at"`
	Diagnosis    string    `json:"diagnosis"`
	Prescription string    `json:"prescription"`
}
