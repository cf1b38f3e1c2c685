package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// Medicine exported for testing purposes
type Medicine struct {
	DB databases.MedicineDatabase
}

// CreateHandler adds a medicine to the master catalogue
func (m Medicine) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" || req.Price < 0 {
		config.ErrorStatus("name is required and price cannot be negative", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	now := time.Now()
	medicine := models.Medicine{
		Name:         req.Name,
		Manufacturer: req.Manufacturer,
		Price:        req.Price,
		Unit:         req.Unit,
		InStock:      req.InStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := m.DB.InsertOne(ctx, medicine)
	if err != nil {
		config.ErrorStatus("failed to create medicine", http.StatusInternalServerError, w, err)
		return
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		medicine.ID = id
	}

	b, err := json.Marshal(medicine)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateHandler edits a catalogue entry
func (m Medicine) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	medicineID, err := primitive.ObjectIDFromHex(mux.Vars(r)["medicine_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	set := bson.M{
		"in_stock":   req.InStock,
		"updated_at": time.Now(),
	}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Manufacturer != "" {
		set["manufacturer"] = req.Manufacturer
	}
	if req.Price > 0 {
		set["price"] = req.Price
	}
	if req.Unit != "" {
		set["unit"] = req.Unit
	}

	if _, err := m.DB.UpdateOne(ctx, bson.M{"_id": medicineID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update medicine", http.StatusInternalServerError, w, err)
		return
	}

	medicine, err := m.DB.FindOne(ctx, bson.M{"_id": medicineID})
	if err != nil {
		config.ErrorStatus("failed to get medicine", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(medicine)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteHandler removes a catalogue entry. Existing prescriptions keep their
// copied name and price.
func (m Medicine) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	medicineID, err := primitive.ObjectIDFromHex(mux.Vars(r)["medicine_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.DB.DeleteOne(ctx, bson.M{"_id": medicineID}); err != nil {
		config.ErrorStatus("failed to delete medicine", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "medicine deleted"}`))
}

// ListHandler returns the catalogue, optionally filtered by a name prefix
func (m Medicine) ListHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{}
	if q := r.URL.Query().Get("q"); q != "" {
		filter["name"] = bson.M{"$regex": "^" + q, "$options": "i"}
	}
	if r.URL.Query().Get("in_stock") == "true" {
		filter["in_stock"] = true
	}

	opts := options.Find().SetSort(bson.M{"name": 1})
	medicines, err := m.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get medicines", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(medicines)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
