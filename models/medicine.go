package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Medicine holds the structure for the medicines collection in mongo, the
// master catalogue used by prescriptions and billing.
type Medicine struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Manufacturer string             `json:"manufacturer" bson:"manufacturer"`
	Price        float64            `json:"price" bson:"price"`
	Unit         string             `json:"unit" bson:"unit"`
	InStock      bool               `json:"in_stock" bson:"in_stock"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// MedicineRequest is the admin payload for catalogue create/update.
type MedicineRequest struct {
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	InStock      bool    `json:"in_stock"`
}
