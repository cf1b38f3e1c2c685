package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
)

// webhookBodyLimit caps the webhook payload size, per stripe's guidance.
const webhookBodyLimit = 65536

// Payment exported for testing purposes
type Payment struct {
	DB     databases.PaymentOrderDatabase
	BDB    databases.PatientBillDatabase
	Config config.Config
}

// CreateCheckoutSessionHandler opens a stripe checkout session for a bill
func (p Payment) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	billID, err := primitive.ObjectIDFromHex(req.BillID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	bill, err := p.BDB.FindOne(ctx, bson.M{"_id": billID})
	if err != nil {
		config.ErrorStatus("failed to get bill", http.StatusNotFound, w, err)
		return
	}
	if bill.Paid {
		config.ErrorStatus("bill already marked paid", http.StatusConflict, w, errBillPaid)
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String("inr"),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Bill " + bill.ID.Hex()),
				},
				// stripe amounts are in the smallest currency unit
				UnitAmount: stripe.Int64(int64(bill.GrandTotal * 100)),
			},
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(p.Config.BaseUrl + "/payments/success"),
		CancelURL:  stripe.String(p.Config.BaseUrl + "/payments/cancel"),
	}
	params.AddMetadata("bill_id", bill.ID.Hex())

	sess, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusBadGateway, w, err)
		return
	}

	now := time.Now()
	order := models.PaymentOrder{
		BillID:    bill.ID,
		PatientID: bill.PatientID,
		SessionID: sess.ID,
		Amount:    bill.GrandTotal,
		Currency:  "inr",
		Status:    models.OrderCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := p.DB.InsertOne(ctx, order); err != nil {
		config.ErrorStatus("failed to create payment order", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(map[string]string{
		"session_id":   sess.ID,
		"checkout_url": sess.URL,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// WebhookHandler settles orders from stripe events. The signature check is
// the only authentication on this route.
func (p Payment) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		config.ErrorStatus("failed to read webhook payload", http.StatusServiceUnavailable, w, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), p.Config.StripeWebhookSecret)
	if err != nil {
		config.ErrorStatus("failed to verify webhook signature", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			config.ErrorStatus("failed to decode event payload", http.StatusBadRequest, w, err)
			return
		}
		p.settle(ctx, sess.ID)
	case "checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			config.ErrorStatus("failed to decode event payload", http.StatusBadRequest, w, err)
			return
		}
		if _, err := p.DB.UpdateOne(ctx, bson.M{"session_id": sess.ID}, bson.M{"$set": bson.M{
			"status":     models.OrderFailed,
			"updated_at": time.Now(),
		}}); err != nil {
			zap.S().Errorw("failed to fail payment order", "session_id", sess.ID, "error", err)
		}
	default:
		zap.S().Debugw("ignoring stripe event", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"received": true}`))
}

// settle marks the order and its bill paid.
func (p Payment) settle(ctx context.Context, sessionID string) {
	order, err := p.DB.FindOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		zap.S().Errorw("no payment order for completed session", "session_id", sessionID, "error", err)
		return
	}

	if _, err := p.DB.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": bson.M{
		"status":     models.OrderPaid,
		"updated_at": time.Now(),
	}}); err != nil {
		zap.S().Errorw("failed to settle payment order", "session_id", sessionID, "error", err)
		return
	}
	if _, err := p.BDB.UpdateOne(ctx, bson.M{"_id": order.BillID}, bson.M{"$set": bson.M{"paid": true}}); err != nil {
		zap.S().Errorw("failed to mark bill paid", "bill_id", order.BillID.Hex(), "error", err)
	}
}
