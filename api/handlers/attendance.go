package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// istZone pins attendance dates to Indian Standard Time regardless of where
// the server runs. IST has no daylight saving, a fixed offset is exact.
var istZone = time.FixedZone("IST", 5*3600+1800)

// Worked-hours thresholds for day classification.
const (
	fullDayHours = 8.0
	halfDayHours = 4.0
)

var errNotYourReport = errors.New("nurses can only view their own attendance")

// Attendance exported for testing purposes
type Attendance struct {
	DB  databases.NurseAttendanceDatabase
	NDB databases.NurseProfileDatabase
}

// CheckInHandler opens today's attendance record for the caller
func (a Attendance) CheckInHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req struct {
		CaptureMethod string `json:"capture_method"`
	}
	// an empty body is a plain check-in
	_ = json.NewDecoder(r.Body).Decode(&req)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := a.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	now := time.Now().In(istZone)
	attendance := models.NurseAttendance{
		NurseID:       profile.ID,
		Date:          now.Format("2006-01-02"),
		CheckIn:       now,
		CaptureMethod: req.CaptureMethod,
		CreatedAt:     now,
	}

	res, err := a.DB.CheckIn(ctx, attendance)
	if err != nil {
		if err == databases.ErrAlreadyCheckedIn {
			config.ErrorStatus("already checked in today", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to check in", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		attendance.ID = id
	}

	b, err := json.Marshal(attendance)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// CheckOutHandler stamps the check-out time on today's record
func (a Attendance) CheckOutHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := a.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	now := time.Now().In(istZone)
	if err := a.DB.CheckOut(ctx, profile.ID, now.Format("2006-01-02"), now); err != nil {
		config.ErrorStatus("failed to check out", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "checked out"}`))
}

// MonthlyReportHandler classifies every day of a month for a nurse. Nurses
// can only pull their own report; admins can pull anyone's.
func (a Attendance) MonthlyReportHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	nurseID, err := primitive.ObjectIDFromHex(vars["nurse_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	month, err := time.ParseInLocation("2006-01", vars["month"], istZone)
	if err != nil {
		config.ErrorStatus("month must be YYYY-MM", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	account := api.AccountFromContext(r.Context())
	if account.Role == models.RoleNurse {
		profile, err := a.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
		if err != nil || profile.ID != nurseID {
			config.ErrorStatus("nurses can only view their own attendance", http.StatusForbidden, w, errNotYourReport)
			return
		}
	}

	// the date key sorts lexicographically, a string range covers the month
	from := month.Format("2006-01-02")
	to := month.AddDate(0, 1, 0).Format("2006-01-02")
	records, err := a.DB.Find(ctx, bson.M{
		"nurse_id": nurseID,
		"date":     bson.M{"$gte": from, "$lt": to},
	})
	if err != nil {
		config.ErrorStatus("failed to get attendance", http.StatusInternalServerError, w, err)
		return
	}

	report := buildMonthlyReport(nurseID, month, records, time.Now().In(istZone))

	b, err := json.Marshal(report)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// buildMonthlyReport walks each day of the month up to today and classifies
// it. Days with no record are absent; a check-in without a check-out counts
// as a half day.
func buildMonthlyReport(nurseID primitive.ObjectID, month time.Time, records []models.NurseAttendance, now time.Time) models.AttendanceReport {
	byDate := make(map[string]models.NurseAttendance, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec
	}

	report := models.AttendanceReport{
		NurseID: nurseID.Hex(),
		Month:   month.Format("2006-01"),
	}

	end := month.AddDate(0, 1, 0)
	today := now.Format("2006-01-02")
	for day := month; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		if date > today {
			break
		}

		entry := models.AttendanceDay{Date: date, Status: models.AttendanceAbsent}
		if rec, ok := byDate[date]; ok {
			in := rec.CheckIn.In(istZone).Format(time.RFC3339)
			entry.CheckIn = &in
			if rec.CheckOut != nil {
				out := rec.CheckOut.In(istZone).Format(time.RFC3339)
				entry.CheckOut = &out
				entry.Hours = rec.CheckOut.Sub(rec.CheckIn).Hours()
				entry.Status = classifyHours(entry.Hours)
			} else {
				entry.Status = models.AttendanceHalf
			}
		}

		switch entry.Status {
		case models.AttendancePresent:
			report.Present++
		case models.AttendanceHalf:
			report.Half++
		default:
			report.Absent++
		}
		report.Days = append(report.Days, entry)
	}
	return report
}

func classifyHours(hours float64) string {
	switch {
	case hours >= fullDayHours:
		return models.AttendancePresent
	case hours >= halfDayHours:
		return models.AttendanceHalf
	default:
		return models.AttendanceAbsent
	}
}
