package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bill item kinds.
const (
	BillItemMedicine = "MEDICINE"
	BillItemOther    = "OTHER"
)

// BillItem is one computed line on a patient bill. Medicine lines carry no
// GST; other lines compute gst from the base amount.
type BillItem struct {
	Kind       string  `json:"kind" bson:"kind"`
	Name       string  `json:"name" bson:"name"`
	Days       int     `json:"days" bson:"days"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	UnitPrice  float64 `json:"unit_price" bson:"unit_price"`
	GSTPercent float64 `json:"gst_percent" bson:"gst_percent"`
	BaseAmount float64 `json:"base_amount" bson:"base_amount"`
	GSTAmount  float64 `json:"gst_amount" bson:"gst_amount"`
	Total      float64 `json:"total" bson:"total"`
}

// PatientBill holds the structure for the patient_bills collection in mongo.
// Totals are computed once at creation; only Paid may change afterwards.
type PatientBill struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID    primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	Items        []BillItem         `json:"items" bson:"items"`
	SubTotal     float64            `json:"sub_total" bson:"sub_total"`
	Discount     float64            `json:"discount" bson:"discount"`
	ExtraCharges float64            `json:"extra_charges" bson:"extra_charges"`
	GrandTotal   float64            `json:"grand_total" bson:"grand_total"`
	Paid         bool               `json:"paid" bson:"paid"`
	PDFPath      string             `json:"pdf_path,omitempty" bson:"pdf_path,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// PatientInvoice holds the structure for the patient_invoices collection in
// mongo, a numbered record tracking amount due/paid.
type PatientInvoice struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PatientID     primitive.ObjectID `json:"patient_id" bson:"patient_id"`
	BillID        primitive.ObjectID `json:"bill_id" bson:"bill_id"`
	InvoiceNumber string             `json:"invoice_number" bson:"invoice_number"`
	Amount        float64            `json:"amount" bson:"amount"`
	Paid          bool               `json:"paid" bson:"paid"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

// BillItemInput is an ad-hoc line submitted at bill generation time.
type BillItemInput struct {
	Name       string  `json:"name"`
	Days       int     `json:"days"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	GSTPercent float64 `json:"gst_percent"`
}

// GenerateBillRequest is the payload for bill generation. Patient medication
// lines are pulled from the store and merged with Items.
type GenerateBillRequest struct {
	Items        []BillItemInput `json:"items"`
	Discount     float64         `json:"discount"`
	ExtraCharges float64         `json:"extra_charges"`
}
