package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance day classifications, derived from worked hours.
const (
	AttendancePresent = "PRESENT"
	AttendanceHalf    = "HALF"
	AttendanceAbsent  = "ABSENT"
)

// NurseAttendance holds the structure for the nurse_attendance collection in
// mongo. Date is the IST calendar date in YYYY-MM-DD form, one record per
// (nurse, date).
type NurseAttendance struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	NurseID       primitive.ObjectID `json:"nurse_id" bson:"nurse_id"`
	Date          string             `json:"date" bson:"date"`
	CheckIn       time.Time          `json:"check_in" bson:"check_in"`
	CheckOut      *time.Time         `json:"check_out,omitempty" bson:"check_out,omitempty"`
	CaptureMethod string             `json:"capture_method" bson:"capture_method"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// AttendanceDay is one classified day inside a monthly report.
type AttendanceDay struct {
	Date     string  `json:"date"`
	Status   string  `json:"status"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Hours    float64 `json:"hours"`
}

// AttendanceReport is the monthly attendance summary for a nurse.
type AttendanceReport struct {
	NurseID string          `json:"nurse_id"`
	Month   string          `json:"month"`
	Days    []AttendanceDay `json:"days"`
	Present int             `json:"present"`
	Half    int             `json:"half"`
	Absent  int             `json:"absent"`
}
