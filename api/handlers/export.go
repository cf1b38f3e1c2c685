package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// Export exported for testing purposes
type Export struct {
	ADB   databases.AccountDatabase
	NDB   databases.NurseProfileDatabase
	PDB   databases.PatientProfileDatabase
	DDB   databases.NurseDutyDatabase
	VDB   databases.PatientVitalsDatabase
	MDB   databases.PatientMedicationDatabase
	BDB   databases.PatientBillDatabase
	DocDB databases.DoctorProfileDatabase
	StfDB databases.StaffDatabase
}

// ExcelHandler streams a workbook with one sheet per record type
func (e Export) ExcelHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	accounts, err := e.ADB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get accounts", http.StatusInternalServerError, w, err)
		return
	}
	names := make(map[primitive.ObjectID]models.Account, len(accounts))
	for _, account := range accounts {
		names[account.ID] = account
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Warnw("failed to close workbook", "error", err)
		}
	}()

	if err := e.writeNurses(ctx, f, names); err != nil {
		config.ErrorStatus("failed to export nurses", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writePatients(ctx, f, names); err != nil {
		config.ErrorStatus("failed to export patients", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeDoctors(ctx, f, names); err != nil {
		config.ErrorStatus("failed to export doctors", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeStaff(ctx, f, names); err != nil {
		config.ErrorStatus("failed to export staff", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeDuties(ctx, f); err != nil {
		config.ErrorStatus("failed to export duties", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeVitals(ctx, f); err != nil {
		config.ErrorStatus("failed to export vitals", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeMedications(ctx, f); err != nil {
		config.ErrorStatus("failed to export medications", http.StatusInternalServerError, w, err)
		return
	}
	if err := e.writeBills(ctx, f); err != nil {
		config.ErrorStatus("failed to export bills", http.StatusInternalServerError, w, err)
		return
	}

	// drop the default sheet and land on the first real one
	if err := f.DeleteSheet("Sheet1"); err != nil {
		zap.S().Warnw("failed to drop default sheet", "error", err)
	}
	if idx, err := f.GetSheetIndex("Nurses"); err == nil {
		f.SetActiveSheet(idx)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s.xlsx"`, time.Now().Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		zap.S().Errorw("failed to stream workbook", "error", err)
	}
}

func newSheet(f *excelize.File, name string, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return f.SetSheetRow(name, "A1", &header)
}

func (e Export) writeNurses(ctx context.Context, f *excelize.File, names map[primitive.ObjectID]models.Account) error {
	nurses, err := e.NDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Nurses"
	if err := newSheet(f, sheet, []interface{}{
		"ID", "Name", "Phone", "Category", "Qualification", "Experience", "Verification", "Police", "Aadhaar Verified", "Joining Date",
	}); err != nil {
		return err
	}
	for i, n := range nurses {
		account := names[n.UserID]
		row := []interface{}{
			n.ID.Hex(), account.Name, account.Phone, n.Category, n.Qualification,
			n.ExperienceYears, n.VerificationStatus, n.PoliceStatus, n.AadhaarVerified,
			n.JoiningDate.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writePatients(ctx context.Context, f *excelize.File, names map[primitive.ObjectID]models.Account) error {
	patients, err := e.PDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Patients"
	if err := newSheet(f, sheet, []interface{}{
		"ID", "Name", "Phone", "Age", "Gender", "Address", "Emergency Contact",
	}); err != nil {
		return err
	}
	for i, p := range patients {
		account := names[p.UserID]
		row := []interface{}{
			p.ID.Hex(), account.Name, account.Phone, p.Age, p.Gender, p.Address, p.EmergencyContact,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeDoctors(ctx context.Context, f *excelize.File, names map[primitive.ObjectID]models.Account) error {
	doctors, err := e.DocDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Doctors"
	if err := newSheet(f, sheet, []interface{}{
		"ID", "Name", "Phone", "Specialization", "Qualification", "Experience", "Available",
	}); err != nil {
		return err
	}
	for i, d := range doctors {
		account := names[d.UserID]
		row := []interface{}{
			d.ID.Hex(), account.Name, account.Phone, d.Specialization, d.Qualification, d.ExperienceYears, d.Available,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeStaff(ctx context.Context, f *excelize.File, names map[primitive.ObjectID]models.Account) error {
	staff, err := e.StfDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Staff"
	if err := newSheet(f, sheet, []interface{}{"ID", "Name", "Phone", "Department", "Role"}); err != nil {
		return err
	}
	for i, s := range staff {
		account := names[s.UserID]
		row := []interface{}{s.ID.Hex(), account.Name, account.Phone, s.Department, s.Role}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeDuties(ctx context.Context, f *excelize.File) error {
	duties, err := e.DDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Duties"
	if err := newSheet(f, sheet, []interface{}{
		"ID", "Nurse ID", "Patient ID", "Shift", "Location", "Active", "Start", "End",
	}); err != nil {
		return err
	}
	for i, d := range duties {
		row := []interface{}{
			d.ID.Hex(), d.NurseID.Hex(), d.PatientID.Hex(), d.ShiftType, d.LocationType, d.Active,
			d.StartTime.Format(time.RFC3339), d.EndTime.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeVitals(ctx context.Context, f *excelize.File) error {
	vitals, err := e.VDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Vitals"
	if err := newSheet(f, sheet, []interface{}{
		"Patient ID", "Temperature", "Pulse", "BP Systolic", "BP Diastolic", "SpO2", "Resp Rate", "Sugar", "Recorded At",
	}); err != nil {
		return err
	}
	for i, v := range vitals {
		row := []interface{}{
			v.PatientID.Hex(), v.Temperature, v.PulseRate, v.BPSystolic, v.BPDiastolic,
			v.SpO2, v.RespRate, v.Sugar, v.RecordedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeMedications(ctx context.Context, f *excelize.File) error {
	meds, err := e.MDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Medications"
	if err := newSheet(f, sheet, []interface{}{
		"Patient ID", "Name", "Dosage", "Frequency", "Duration Days", "Price",
	}); err != nil {
		return err
	}
	for i, m := range meds {
		row := []interface{}{
			m.PatientID.Hex(), m.Name, m.Dosage, m.Frequency, m.DurationDays, m.Price,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func (e Export) writeBills(ctx context.Context, f *excelize.File) error {
	bills, err := e.BDB.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	const sheet = "Bills"
	if err := newSheet(f, sheet, []interface{}{
		"ID", "Patient ID", "Sub Total", "Discount", "Extra Charges", "Grand Total", "Paid", "Created At",
	}); err != nil {
		return err
	}
	for i, b := range bills {
		row := []interface{}{
			b.ID.Hex(), b.PatientID.Hex(), b.SubTotal, b.Discount, b.ExtraCharges,
			b.GrandTotal, b.Paid, b.CreatedAt.Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
