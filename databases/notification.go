package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const notificationName = "notifications"

// NotificationDatabase contains the methods to use with the notification database
type NotificationDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.Notification, error)
	FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Notification, error)
	InsertOne(context.Context, models.Notification) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Notification, error) {
	var notifications []models.Notification
	cur, err := n.db.Collection(notificationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&notifications)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindPage returns one page of notifications, newest first.
func (n *notificationDatabase) FindPage(ctx context.Context, filter interface{}, limit, page int) ([]models.Notification, error) {
	opts := pageOpts(limit, page).SetSort(bson.M{"created_at": -1})
	return n.Find(ctx, filter, opts)
}

func (n *notificationDatabase) InsertOne(ctx context.Context, notification models.Notification) (InsertOneResultHelper, error) {
	return n.db.Collection(notificationName).InsertOne(ctx, notification)
}

func (n *notificationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return n.db.Collection(notificationName).UpdateOne(ctx, filter, update, opts...)
}

func (n *notificationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return n.db.Collection(notificationName).DeleteOne(ctx, filter, opts...)
}
