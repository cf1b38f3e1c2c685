package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PatientProfile holds the structure for the patient_profiles collection in mongo
type PatientProfile struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID `json:"user_id" bson:"user_id"`
	Age              int                `json:"age" bson:"age"`
	Gender           string             `json:"gender" bson:"gender"`
	Address          string             `json:"address" bson:"address"`
	MedicalHistory   string             `json:"medical_history" bson:"medical_history"`
	EmergencyContact string             `json:"emergency_contact" bson:"emergency_contact"`
	Documents        []DocumentRef      `json:"documents" bson:"documents"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// PatientVitals holds the structure for the patient_vitals collection in
// mongo. Append-only.
type PatientVitals struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID   primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	RecordedBy  primitive.ObjectID `json:"recorded_by" bson:"recorded_by"`
	Temperature float64            `json:"temperature" bson:"temperature"`
	PulseRate   int                `json:"pulse_rate" bson:"pulse_rate"`
	BPSystolic  int                `json:"bp_systolic" bson:"bp_systolic"`
	BPDiastolic int                `json:"bp_diastolic" bson:"bp_diastolic"`
	SpO2        int                `json:"spo2" bson:"spo2"`
	RespRate    int                `json:"resp_rate" bson:"resp_rate"`
	Sugar       float64            `json:"sugar" bson:"sugar"`
	RecordedAt  time.Time          `json:"recorded_at" bson:"recorded_at"`
}

// PatientDailyNote holds the structure for the patient_daily_notes collection
// in mongo. Append-only.
type PatientDailyNote struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	AuthorID  primitive.ObjectID `json:"author_id" bson:"author_id"`
	Note      string             `json:"note" bson:"note"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// PatientMedication holds the structure for the patient_medications
// collection in mongo. MedicineID is set when prescribed from the master
// catalogue, empty for ad-hoc entries.
type PatientMedication struct {
	ID           primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	PatientID    primitive.ObjectID  `json:"patient_id" bson:"patient_id"`
	MedicineID   *primitive.ObjectID `json:"medicine_id,omitempty" bson:"medicine_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Dosage       string              `json:"dosage" bson:"dosage"`
	Frequency    string              `json:"frequency" bson:"frequency"`
	DurationDays int                 `json:"duration_days" bson:"duration_days"`
	Price        float64             `json:"price" bson:"price"`
	PrescribedBy primitive.ObjectID  `json:"prescribed_by" bson:"prescribed_by"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}

// CreatePatientRequest registers a patient account and profile.
type CreatePatientRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	MedicalHistory   string `json:"medical_history"`
	EmergencyContact string `json:"emergency_contact"`
}

// AddMedicationRequest adds an ad-hoc medication line for a patient.
type AddMedicationRequest struct {
	Name         string  `json:"name"`
	Dosage       string  `json:"dosage"`
	Frequency    string  `json:"frequency"`
	DurationDays int     `json:"duration_days"`
	Price        float64 `json:"price"`
}

// PrescribeRequest prescribes a medicine from the master catalogue.
type PrescribeRequest struct {
	MedicineID   string `json:"medicine_id"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	DurationDays int    `json:"duration_days"`
}
