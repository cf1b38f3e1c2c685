package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wecarehhcs/homecare-api/models"
)

func TestComputeBillMedicineLines(t *testing.T) {
	patientID := primitive.NewObjectID()
	meds := []models.PatientMedication{
		{Name: "Paracetamol", Price: 15, DurationDays: 10},
		{Name: "Syrup", Price: 90}, // no duration bills a single unit
	}

	bill := computeBill(patientID, meds, models.GenerateBillRequest{})

	assert.Len(t, bill.Items, 2)
	assert.Equal(t, 150.0, bill.Items[0].Total)
	assert.Equal(t, 90.0, bill.Items[1].Total)
	assert.Equal(t, 1, bill.Items[1].Quantity)
	assert.Equal(t, 240.0, bill.SubTotal)
	assert.Equal(t, 240.0, bill.GrandTotal)

	// medicine lines never carry GST
	for _, item := range bill.Items {
		assert.Equal(t, models.BillItemMedicine, item.Kind)
		assert.Zero(t, item.GSTAmount)
	}
}

func TestComputeBillGSTLine(t *testing.T) {
	req := models.GenerateBillRequest{
		Items: []models.BillItemInput{
			{Name: "Nursing charge", Days: 2, Quantity: 1, UnitPrice: 100, GSTPercent: 18},
		},
	}

	bill := computeBill(primitive.NewObjectID(), nil, req)

	assert.Len(t, bill.Items, 1)
	assert.Equal(t, 200.0, bill.Items[0].BaseAmount)
	assert.Equal(t, 36.0, bill.Items[0].GSTAmount)
	assert.Equal(t, 236.0, bill.Items[0].Total)
	assert.Equal(t, 236.0, bill.GrandTotal)
}

func TestComputeBillZeroPercentGST(t *testing.T) {
	req := models.GenerateBillRequest{
		Items: []models.BillItemInput{
			{Name: "Nursing charge", Quantity: 1, UnitPrice: 100},
		},
	}

	bill := computeBill(primitive.NewObjectID(), nil, req)

	assert.Equal(t, 100.0, bill.Items[0].Total)
	assert.Zero(t, bill.Items[0].GSTAmount)
}

// GST comes straight from each line's gst_percent; the payload carries no
// bill-level switch.
func TestComputeBillGSTFromPayloadAlone(t *testing.T) {
	payload := `{
		"items": [{"name": "Nursing charge", "days": 2, "quantity": 1, "unit_price": 100, "gst_percent": 18}]
	}`
	var req models.GenerateBillRequest
	assert.NoError(t, json.Unmarshal([]byte(payload), &req))

	meds := []models.PatientMedication{
		{Name: "Paracetamol", Price: 15, DurationDays: 10},
	}

	bill := computeBill(primitive.NewObjectID(), meds, req)

	assert.Equal(t, 236.0, bill.Items[1].Total)
	assert.Equal(t, 386.0, bill.SubTotal)
}

func TestComputeBillMixedLines(t *testing.T) {
	meds := []models.PatientMedication{
		{Name: "Paracetamol", Price: 15, DurationDays: 10},
	}
	req := models.GenerateBillRequest{
		Items: []models.BillItemInput{
			{Name: "Nursing charge", Days: 2, Quantity: 1, UnitPrice: 100, GSTPercent: 18},
		},
		Discount:     50,
		ExtraCharges: 14,
	}

	bill := computeBill(primitive.NewObjectID(), meds, req)

	assert.Equal(t, 386.0, bill.SubTotal)
	assert.Equal(t, 350.0, bill.GrandTotal)
}

func TestComputeBillGrandTotalFloor(t *testing.T) {
	req := models.GenerateBillRequest{
		Items:    []models.BillItemInput{{Name: "Dressing", Quantity: 1, UnitPrice: 100}},
		Discount: 500,
	}

	bill := computeBill(primitive.NewObjectID(), nil, req)

	assert.Equal(t, 100.0, bill.SubTotal)
	assert.Equal(t, 0.0, bill.GrandTotal)
}
