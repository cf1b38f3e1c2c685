package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/api"
	"github.com/wecarehhcs/homecare-api/config"
	"github.com/wecarehhcs/homecare-api/databases"
	"github.com/wecarehhcs/homecare-api/models"
	"github.com/wecarehhcs/homecare-api/providers"
)

// notificationPageSize is the per-page limit on the notification feed.
const notificationPageSize = 20

var errNotificationMissing = errors.New("notification not found")

// Notification exported for testing purposes
type Notification struct {
	DB   databases.NotificationDatabase
	TDB  databases.PushTokenDatabase
	ADB  databases.AccountDatabase
	Push providers.PushSender
}

// ListHandler returns the caller's notification feed, paginated
func (n Notification) ListHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())
	Page = getPage(Page, r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notifications, err := n.DB.FindPage(ctx, bson.M{"user_id": account.ID}, notificationPageSize, Page)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(notifications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MarkReadHandler marks one of the caller's notifications as read
func (n Notification) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	notificationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["notification_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	modified, err := n.DB.UpdateOne(ctx, bson.M{"_id": notificationID, "user_id": account.ID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		config.ErrorStatus("failed to update notification", http.StatusInternalServerError, w, err)
		return
	}
	if modified == 0 {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, errNotificationMissing)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "marked read"}`))
}

// DeleteHandler removes one of the caller's notifications
func (n Notification) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	notificationID, err := primitive.ObjectIDFromHex(mux.Vars(r)["notification_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := n.DB.DeleteOne(ctx, bson.M{"_id": notificationID, "user_id": account.ID}); err != nil {
		config.ErrorStatus("failed to delete notification", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "deleted"}`))
}

// BroadcastHandler stores a notification for every matching account and
// pushes to their registered devices
func (n Notification) BroadcastHandler(w http.ResponseWriter, r *http.Request) {
	var req models.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Title == "" {
		config.ErrorStatus("title is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	filter := bson.M{"is_active": true}
	if req.Role != "" {
		filter["role"] = req.Role
	}
	accounts, err := n.ADB.Find(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get accounts", http.StatusInternalServerError, w, err)
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(accounts))
	for _, account := range accounts {
		userIDs = append(userIDs, account.ID)
		_, err := n.DB.InsertOne(ctx, models.Notification{
			UserID:    account.ID,
			Title:     req.Title,
			Body:      req.Body,
			CreatedAt: time.Now(),
		})
		if err != nil {
			zap.S().Errorw("failed to store broadcast notification", "user_id", account.ID.Hex(), "error", err)
		}
	}

	n.push(ctx, userIDs, req.Title, req.Body)

	b, _ := json.Marshal(map[string]int{"recipients": len(userIDs)})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// RegisterTokenHandler registers a device token for the caller. Re-registering
// the same token moves it to the caller.
func (n Notification) RegisterTokenHandler(w http.ResponseWriter, r *http.Request) {
	account := api.AccountFromContext(r.Context())

	var req models.RegisterPushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Token == "" {
		config.ErrorStatus("token is required", http.StatusBadRequest, w, errMissingFields)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	err := n.TDB.Upsert(ctx, models.PushToken{
		UserID:    account.ID,
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now(),
	})
	if err != nil {
		config.ErrorStatus("failed to register token", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"status": "token registered"}`))
}

// push fans a message out to the devices of the given users. Push failure is
// logged, the stored notifications already exist.
func (n Notification) push(ctx context.Context, userIDs []primitive.ObjectID, title, body string) {
	if len(userIDs) == 0 {
		return
	}
	tokens, err := n.TDB.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		zap.S().Errorw("failed to get push tokens", "error", err)
		return
	}
	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}
	if len(raw) == 0 {
		return
	}
	if err := n.Push.Send(ctx, raw, title, body, nil); err != nil {
		zap.S().Errorw("failed to push broadcast", "error", err)
	}
}
