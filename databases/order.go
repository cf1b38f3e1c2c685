package databases

// go generate: mockery --name PaymentOrderDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const paymentOrderName = "payment_orders"

// PaymentOrderDatabase contains the methods to use with the payment order database
type PaymentOrderDatabase interface {
	FindOne(context.Context, interface{}, ...*options.FindOneOptions) (*models.PaymentOrder, error)
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PaymentOrder, error)
	InsertOne(context.Context, models.PaymentOrder) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type paymentOrderDatabase struct {
	db DatabaseHelper
}

// NewPaymentOrderDatabase initializes a new instance of payment order database with the provided db connection
func NewPaymentOrderDatabase(db DatabaseHelper) PaymentOrderDatabase {
	return &paymentOrderDatabase{
		db: db,
	}
}

func (o *paymentOrderDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.PaymentOrder, error) {
	order := &models.PaymentOrder{}
	err := o.db.Collection(paymentOrderName).FindOne(ctx, filter, opts...).Decode(&order)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (o *paymentOrderDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PaymentOrder, error) {
	var orders []models.PaymentOrder
	cur, err := o.db.Collection(paymentOrderName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *paymentOrderDatabase) InsertOne(ctx context.Context, order models.PaymentOrder) (InsertOneResultHelper, error) {
	return o.db.Collection(paymentOrderName).InsertOne(ctx, order)
}

func (o *paymentOrderDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return o.db.Collection(paymentOrderName).UpdateOne(ctx, filter, update, opts...)
}
