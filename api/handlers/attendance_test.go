package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/models"
)

func TestClassifyHoursBoundaries(t *testing.T) {
	assert.Equal(t, models.AttendancePresent, classifyHours(9.5))
	assert.Equal(t, models.AttendancePresent, classifyHours(8))
	assert.Equal(t, models.AttendanceHalf, classifyHours(7.99))
	assert.Equal(t, models.AttendanceHalf, classifyHours(4))
	assert.Equal(t, models.AttendanceAbsent, classifyHours(3.99))
	assert.Equal(t, models.AttendanceAbsent, classifyHours(0))
}

func TestBuildMonthlyReport(t *testing.T) {
	nurseID := primitive.NewObjectID()
	month := time.Date(2026, 8, 1, 0, 0, 0, 0, istZone)
	now := time.Date(2026, 8, 5, 12, 0, 0, 0, istZone)

	at := func(day, hour, min int) time.Time {
		return time.Date(2026, 8, day, hour, min, 0, 0, istZone)
	}
	out := func(t time.Time) *time.Time { return &t }

	records := []models.NurseAttendance{
		{NurseID: nurseID, Date: "2026-08-01", CheckIn: at(1, 9, 0), CheckOut: out(at(1, 17, 30))},
		{NurseID: nurseID, Date: "2026-08-02", CheckIn: at(2, 9, 0), CheckOut: out(at(2, 13, 30))},
		{NurseID: nurseID, Date: "2026-08-03", CheckIn: at(3, 9, 0), CheckOut: out(at(3, 11, 0))},
		{NurseID: nurseID, Date: "2026-08-04", CheckIn: at(4, 9, 0)},
	}

	report := buildMonthlyReport(nurseID, month, records, now)

	assert.Equal(t, "2026-08", report.Month)
	assert.Len(t, report.Days, 5) // the report stops at today
	assert.Equal(t, 1, report.Present)
	assert.Equal(t, 2, report.Half)
	assert.Equal(t, 2, report.Absent)
	assert.Equal(t, len(report.Days), report.Present+report.Half+report.Absent)

	assert.Equal(t, models.AttendancePresent, report.Days[0].Status) // 8.5h
	assert.Equal(t, models.AttendanceHalf, report.Days[1].Status)    // 4.5h
	assert.Equal(t, models.AttendanceAbsent, report.Days[2].Status)  // 2h
	assert.Equal(t, models.AttendanceHalf, report.Days[3].Status)    // no check-out
	assert.Equal(t, models.AttendanceAbsent, report.Days[4].Status)  // no record
}

func TestBuildMonthlyReportPastMonth(t *testing.T) {
	nurseID := primitive.NewObjectID()
	month := time.Date(2026, 7, 1, 0, 0, 0, 0, istZone)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, istZone)

	report := buildMonthlyReport(nurseID, month, nil, now)

	assert.Len(t, report.Days, 31)
	assert.Equal(t, 31, report.Absent)
	assert.Zero(t, report.Present)
	assert.Zero(t, report.Half)
}
