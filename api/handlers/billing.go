package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

var (
	errBillPaid      = errors.New("bill already marked paid")
	errEmptyBill     = errors.New("bill has no billable lines")
	errBillAccess    = errors.New("no access to this bill")
	errBadGSTPercent = errors.New("invalid gst_percent value")
)

// Billing exported for testing purposes
type Billing struct {
	DB     databases.PatientBillDatabase
	IDB    databases.PatientInvoiceDatabase
	MDB    databases.PatientMedicationDatabase
	PDB    databases.PatientProfileDatabase
	ADB    databases.AccountDatabase
	Config config.Config
}

// computeBill turns medication lines and ad-hoc items into a priced bill.
// Medicine lines bill price times duration and never carry GST. Other lines
// bill unit price times quantity, times days when days is set, with the
// line's own GST percentage on top. The grand total never goes below zero.
func computeBill(patientID primitive.ObjectID, meds []models.PatientMedication, req models.GenerateBillRequest) models.PatientBill {
	bill := models.PatientBill{
		PatientID:    patientID,
		Discount:     req.Discount,
		ExtraCharges: req.ExtraCharges,
		CreatedAt:    time.Now(),
	}

	for _, med := range meds {
		qty := med.DurationDays
		if qty == 0 {
			qty = 1
		}
		base := float64(qty) * med.Price
		item := models.BillItem{
			Kind:       models.BillItemMedicine,
			Name:       med.Name,
			Days:       med.DurationDays,
			Quantity:   qty,
			UnitPrice:  med.Price,
			BaseAmount: base,
			Total:      base,
		}
		bill.Items = append(bill.Items, item)
		bill.SubTotal += item.Total
	}

	for _, in := range req.Items {
		qty := in.Quantity
		if qty == 0 {
			qty = 1
		}
		base := float64(qty) * in.UnitPrice
		if in.Days > 0 {
			base = float64(in.Days) * float64(qty) * in.UnitPrice
		}
		item := models.BillItem{
			Kind:       models.BillItemOther,
			Name:       in.Name,
			Days:       in.Days,
			Quantity:   qty,
			UnitPrice:  in.UnitPrice,
			BaseAmount: base,
			Total:      base,
		}
		if in.GSTPercent > 0 {
			item.GSTPercent = in.GSTPercent
			item.GSTAmount = base * in.GSTPercent / 100
			item.Total = base + item.GSTAmount
		}
		bill.Items = append(bill.Items, item)
		bill.SubTotal += item.Total
	}

	bill.GrandTotal = bill.SubTotal - bill.Discount + bill.ExtraCharges
	if bill.GrandTotal < 0 {
		bill.GrandTotal = 0
	}
	return bill
}

// GenerateHandler builds a bill for a patient from their medication lines
// plus any ad-hoc items, renders the PDF and opens a numbered invoice
func (bl Billing) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	patientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["patient_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.GenerateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	patient, err := bl.PDB.FindOne(ctx, bson.M{"_id": patientID})
	if err != nil {
		config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
		return
	}

	meds, err := bl.MDB.Find(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		config.ErrorStatus("failed to get medications", http.StatusInternalServerError, w, err)
		return
	}

	bill := computeBill(patientID, meds, req)
	if len(bill.Items) == 0 {
		config.ErrorStatus("bill has no billable lines", http.StatusBadRequest, w, errEmptyBill)
		return
	}

	res, err := bl.DB.InsertOne(ctx, bill)
	if err != nil {
		config.ErrorStatus("failed to create bill", http.StatusInternalServerError, w, err)
		return
	}
	billID, ok := res.Decode().(primitive.ObjectID)
	if !ok {
		config.ErrorStatus("failed to read inserted bill id", http.StatusInternalServerError, w, errBadInsertID)
		return
	}
	bill.ID = billID

	patientName := bl.patientName(ctx, patient.UserID)
	if path, err := bl.renderBillPDF(bill, patientName, 0); err != nil {
		// the bill stands even if the PDF could not be written
		zap.S().Errorw("failed to render bill pdf", "bill_id", billID.Hex(), "error", err)
	} else {
		bill.PDFPath = path
		if _, err := bl.DB.UpdateOne(ctx, bson.M{"_id": billID}, bson.M{"$set": bson.M{"pdf_path": path}}); err != nil {
			zap.S().Errorw("failed to store pdf path", "bill_id", billID.Hex(), "error", err)
		}
	}

	number, err := bl.IDB.NextInvoiceNumber(ctx)
	if err != nil {
		config.ErrorStatus("failed to allocate invoice number", http.StatusInternalServerError, w, err)
		return
	}
	invoice := models.PatientInvoice{
		PatientID:     patientID,
		BillID:        billID,
		InvoiceNumber: number,
		Amount:        bill.GrandTotal,
		CreatedAt:     time.Now(),
	}
	if _, err := bl.IDB.InsertOne(ctx, invoice); err != nil {
		config.ErrorStatus("failed to create invoice", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(bill)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListHandler returns a patient's bills, newest first
func (bl Billing) ListHandler(w http.ResponseWriter, r *http.Request) {
	patientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["patient_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if !bl.canSeePatient(ctx, r, patientID) {
		config.ErrorStatus("no access to this bill", http.StatusForbidden, w, errBillAccess)
		return
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	bills, err := bl.DB.Find(ctx, bson.M{"patient_id": patientID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get bills", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(bills)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DownloadPDFHandler streams the bill PDF. A gst_percent query adds GST over
// the grand total at download time and is reflected in the filename; the GST
// variant is always rendered fresh, the plain one only when the file went
// missing.
func (bl Billing) DownloadPDFHandler(w http.ResponseWriter, r *http.Request) {
	billID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bill_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var gstPercent float64
	if raw := r.URL.Query().Get("gst_percent"); raw != "" {
		gstPercent, err = strconv.ParseFloat(raw, 64)
		if err != nil || gstPercent < 0 {
			config.ErrorStatus("gst_percent must be a non-negative number", http.StatusBadRequest, w, errBadGSTPercent)
			return
		}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bill, err := bl.DB.FindOne(ctx, bson.M{"_id": billID})
	if err != nil {
		config.ErrorStatus("failed to get bill", http.StatusNotFound, w, err)
		return
	}
	if !bl.canSeePatient(ctx, r, bill.PatientID) {
		config.ErrorStatus("no access to this bill", http.StatusForbidden, w, errBillAccess)
		return
	}

	filename := billPDFName(billID, gstPercent)
	fullPath := filepath.Join(bl.Config.MediaDir, filename)
	if gstPercent > 0 || !fileExists(fullPath) {
		patient, err := bl.PDB.FindOne(ctx, bson.M{"_id": bill.PatientID})
		if err != nil {
			config.ErrorStatus("failed to get patient profile", http.StatusNotFound, w, err)
			return
		}
		path, err := bl.renderBillPDF(*bill, bl.patientName(ctx, patient.UserID), gstPercent)
		if err != nil {
			config.ErrorStatus("failed to render pdf", http.StatusInternalServerError, w, err)
			return
		}
		if gstPercent == 0 {
			if _, err := bl.DB.UpdateOne(ctx, bson.M{"_id": billID}, bson.M{"$set": bson.M{"pdf_path": path}}); err != nil {
				zap.S().Errorw("failed to store pdf path", "bill_id", billID.Hex(), "error", err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	http.ServeFile(w, r, fullPath)
}

// MarkPaidHandler settles a bill and its invoice
func (bl Billing) MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	billID, err := primitive.ObjectIDFromHex(mux.Vars(r)["bill_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bill, err := bl.DB.FindOne(ctx, bson.M{"_id": billID})
	if err != nil {
		config.ErrorStatus("failed to get bill", http.StatusNotFound, w, err)
		return
	}
	if bill.Paid {
		config.ErrorStatus("bill already marked paid", http.StatusConflict, w, errBillPaid)
		return
	}

	if _, err := bl.DB.UpdateOne(ctx, bson.M{"_id": billID}, bson.M{"$set": bson.M{"paid": true}}); err != nil {
		config.ErrorStatus("failed to update bill", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := bl.IDB.UpdateOne(ctx, bson.M{"bill_id": billID}, bson.M{"$set": bson.M{"paid": true}}); err != nil {
		config.ErrorStatus("failed to update invoice", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "bill paid"}`))
}

// InvoicesHandler returns a patient's invoices, newest first
func (bl Billing) InvoicesHandler(w http.ResponseWriter, r *http.Request) {
	patientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["patient_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if !bl.canSeePatient(ctx, r, patientID) {
		config.ErrorStatus("no access to this bill", http.StatusForbidden, w, errBillAccess)
		return
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	invoices, err := bl.IDB.Find(ctx, bson.M{"patient_id": patientID}, opts)
	if err != nil {
		config.ErrorStatus("failed to get invoices", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(invoices)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// canSeePatient is the billing read gate: staff roles see everything,
// patients see their own records only.
func (bl Billing) canSeePatient(ctx context.Context, r *http.Request, patientID primitive.ObjectID) bool {
	account := api.AccountFromContext(r.Context())
	switch account.Role {
	case models.RoleAdmin, models.RoleDoctor, models.RoleStaff:
		return true
	case models.RolePatient:
		patient, err := bl.PDB.FindOne(ctx, bson.M{"_id": patientID})
		return err == nil && patient.UserID == account.ID
	}
	return false
}

// patientName resolves an account name for the PDF header.
func (bl Billing) patientName(ctx context.Context, userID primitive.ObjectID) string {
	account, err := bl.ADB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return ""
	}
	return account.Name
}

// billPDFName names the file after the bill and whether download-time GST
// was applied.
func billPDFName(billID primitive.ObjectID, gstPercent float64) string {
	suffix := "nogst"
	if gstPercent > 0 {
		suffix = "gst"
	}
	return fmt.Sprintf("bill-%s-%s.pdf", billID.Hex(), suffix)
}

// renderBillPDF writes the bill PDF under the media root and returns the
// served path. A positive gstPercent adds GST over the grand total.
func (bl Billing) renderBillPDF(bill models.PatientBill, patientName string, gstPercent float64) (string, error) {
	if err := os.MkdirAll(bl.Config.MediaDir, 0o755); err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Patient Bill", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "WeCare Home Healthcare Services")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, "Bill "+bill.ID.Hex())
	pdf.Ln(6)
	if patientName != "" {
		pdf.Cell(0, 8, "Patient: "+patientName)
		pdf.Ln(6)
	}
	pdf.Cell(0, 8, "Date: "+bill.CreatedAt.Format("02 Jan 2006"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Days", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "GST", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range bill.Items {
		pdf.CellFormat(60, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Days), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", item.GSTAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", item.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	summary := func(label string, amount float64) {
		pdf.CellFormat(155, 8, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	summary("Sub Total", bill.SubTotal)
	summary("Discount", bill.Discount)
	summary("Extra Charges", bill.ExtraCharges)
	summary("Grand Total", bill.GrandTotal)
	if gstPercent > 0 {
		gstAmount := bill.GrandTotal * gstPercent / 100
		summary(fmt.Sprintf("GST (%.1f%%)", gstPercent), gstAmount)
		summary("Amount Payable", bill.GrandTotal+gstAmount)
	}

	filename := billPDFName(bill.ID, gstPercent)
	if err := pdf.OutputFileAndClose(filepath.Join(bl.Config.MediaDir, filename)); err != nil {
		return "", err
	}
	return "/media/" + filename, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
