package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NurseSalary holds the structure for the nurse_salaries collection in mongo.
// Month is the YYYY-MM key, one record per (nurse, month).
type NurseSalary struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID      primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	Month        string             `json:"month" bson:"month"`
	BasicSalary  float64            `json:"basic_salary" bson:"basic_salary"`
	NetSalary    float64            `json:"net_salary" bson:"net_salary"`
	AdvanceTaken float64            `json:"advance_taken" bson:"advance_taken"`
	Paid         bool               `json:"paid" bson:"paid"`
	PaidAt       *time.Time         `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// GenerateSalaryRequest is the admin payload to open a salary record.
type GenerateSalaryRequest struct {
	NurseID     string  `json:"nurse_id"`
	Month       string  `json:"month"`
	BasicSalary float64 `json:"basic_salary"`
}

// SalaryAdvanceRequest is the nurse payload to draw an advance.
type SalaryAdvanceRequest struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}
