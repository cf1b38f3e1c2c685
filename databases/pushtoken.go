package databases

// go generate: mockery --name PushTokenDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wecarehhcs/homecare-api/models"
)

const pushTokenCollectionName = "push_tokens"

// PushTokenDatabase contains the methods to use with the push token database
type PushTokenDatabase interface {
	Find(context.Context, interface{}, ...*options.FindOptions) ([]models.PushToken, error)
	Upsert(ctx context.Context, token models.PushToken) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type pushTokenDatabase struct {
	db DatabaseHelper
}

// NewPushTokenDatabase initializes a new instance of push token database with the provided db connection
func NewPushTokenDatabase(db DatabaseHelper) PushTokenDatabase {
	return &pushTokenDatabase{
		db: db,
	}
}

func (p *pushTokenDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.PushToken, error) {
	var tokens []models.PushToken
	cur, err := p.db.Collection(pushTokenCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&tokens)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// Upsert registers a device token, keyed by the token string so re-registering
// the same device moves it to the new user.
func (p *pushTokenDatabase) Upsert(ctx context.Context, token models.PushToken) error {
	opts := options.Update().SetUpsert(true)
	_, err := p.db.Collection(pushTokenCollectionName).UpdateOne(ctx,
		bson.M{"token": token.Token},
		bson.M{"$set": bson.M{
			"user_id":    token.UserID,
			"platform":   token.Platform,
			"created_at": time.Now(),
		}},
		opts,
	)
	return err
}

func (p *pushTokenDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return p.db.Collection(pushTokenCollectionName).DeleteOne(ctx, filter, opts...)
}
