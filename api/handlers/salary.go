package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

var (
	errSalaryExists  = errors.New("salary already generated for this month")
	errSalaryPaid    = errors.New("salary already marked paid")
	errBadAdvance    = errors.New("advance amount must be positive")
	errNoSalaryMonth = errors.New("no salary record for this month")
)

// Salary exported for testing purposes
type Salary struct {
	DB  databases.NurseSalaryDatabase
	NDB databases.NurseProfileDatabase
}

// GenerateHandler opens a salary record for a nurse and month
func (s Salary) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	nurseID, err := primitive.ObjectIDFromHex(req.NurseID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		config.ErrorStatus("month must be YYYY-MM", http.StatusBadRequest, w, err)
		return
	}
	if req.BasicSalary <= 0 {
		config.ErrorStatus("basic_salary must be positive", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := s.NDB.FindOne(ctx, bson.M{"_id": nurseID}); err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	_, err = s.DB.FindOne(ctx, bson.M{"nurse_id": nurseID, "month": req.Month})
	if err == nil {
		config.ErrorStatus("salary already generated for this month", http.StatusConflict, w, errSalaryExists)
		return
	}
	if err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to check existing salary", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	salary := models.NurseSalary{
		NurseID:     nurseID,
		Month:       req.Month,
		BasicSalary: req.BasicSalary,
		NetSalary:   req.BasicSalary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := s.DB.InsertOne(ctx, salary)
	if err != nil {
		config.ErrorStatus("failed to create salary", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		salary.ID = id
	}

	b, err := json.Marshal(salary)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// MarkPaidHandler settles a salary record
func (s Salary) MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	salaryID, err := primitive.ObjectIDFromHex(mux.Vars(r)["salary_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	salary, err := s.DB.FindOne(ctx, bson.M{"_id": salaryID})
	if err != nil {
		config.ErrorStatus("failed to get salary", http.StatusNotFound, w, err)
		return
	}
	if salary.Paid {
		config.ErrorStatus("salary already marked paid", http.StatusConflict, w, errSalaryPaid)
		return
	}

	now := time.Now()
	_, err = s.DB.UpdateOne(ctx, bson.M{"_id": salaryID}, bson.M{"$set": bson.M{
		"paid":       true,
		"paid_at":    now,
		"updated_at": now,
	}})
	if err != nil {
		config.ErrorStatus("failed to update salary", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "salary paid"}`))
}

// AdvanceHandler draws an advance against the caller's salary for a month.
// The net salary drops by the amount; it may go negative, recovery is a
// payroll concern.
func (s Salary) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.SalaryAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Amount <= 0 {
		config.ErrorStatus("amount must be positive", http.StatusBadRequest, w, errBadAdvance)
		return
	}
	if _, err := time.Parse("2006-01", req.Month); err != nil {
		config.ErrorStatus("month must be YYYY-MM", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := s.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	salary, err := s.DB.FindOne(ctx, bson.M{"nurse_id": profile.ID, "month": req.Month})
	if err != nil {
		config.ErrorStatus("no salary record for this month", http.StatusNotFound, w, errNoSalaryMonth)
		return
	}
	if salary.Paid {
		config.ErrorStatus("salary already marked paid", http.StatusConflict, w, errSalaryPaid)
		return
	}

	_, err = s.DB.UpdateOne(ctx, bson.M{"_id": salary.ID}, bson.M{
		"$inc": bson.M{"advance_taken": req.Amount, "net_salary": -req.Amount},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		config.ErrorStatus("failed to record advance", http.StatusInternalServerError, w, err)
		return
	}

	salary.AdvanceTaken += req.Amount
	salary.NetSalary -= req.Amount

	b, err := json.Marshal(salary)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MyHandler lists the caller's salary records, newest month first
func (s Salary) MyHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	profile, err := s.NDB.FindOne(ctx, bson.M{"user_id": account.ID})
	if err != nil {
		config.ErrorStatus("failed to get nurse profile", http.StatusNotFound, w, err)
		return
	}

	opts := options.Find().SetSort(bson.M{"month": -1})
	salaries, err := s.DB.Find(ctx, bson.M{"nurse_id": profile.ID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get salaries", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(salaries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
