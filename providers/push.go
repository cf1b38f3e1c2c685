package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/config"
)

const (
	fcmSendURL    = "https://fcm.googleapis.com/fcm/send"
	fcmBatchLimit = 500
)

// PushSender delivers token-addressed push notifications.
type PushSender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) error
}

type fcmMessage struct {
	RegistrationIDs []string               `json:"registration_ids"`
	Notification    map[string]string      `json:"notification"`
	Data            map[string]interface{} `json:"data,omitempty"`
	Priority        string                 `json:"priority"`
}

type fcmProvider struct {
	client    *resty.Client
	serverKey string
}

// NewPushSender builds an FCM client from the config.
func NewPushSender(conf *config.Config) PushSender {
	client := resty.New().SetTimeout(15 * time.Second)
	return &fcmProvider{client: client, serverKey: conf.FCMServerKey}
}

// Send fans the notification out to all tokens, batched per the FCM multicast
// limit. A failed batch is logged and the remaining batches still go out.
func (p *fcmProvider) Send(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) error {
	if len(tokens) == 0 {
		return nil
	}

	for i := 0; i < len(tokens); i += fcmBatchLimit {
		end := i + fcmBatchLimit
		if end > len(tokens) {
			end = len(tokens)
		}

		if err := p.sendBatch(ctx, tokens[i:end], title, body, data); err != nil {
			zap.S().Errorw("failed to send push batch",
				"from", i,
				"to", end-1,
				"error", err,
			)
		}
	}
	return nil
}

func (p *fcmProvider) sendBatch(ctx context.Context, tokens []string, title, body string, data map[string]interface{}) error {
	msg := fcmMessage{
		RegistrationIDs: tokens,
		Notification:    map[string]string{"title": title, "body": body},
		Data:            data,
		Priority:        "high",
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+p.serverKey).
		SetBody(msg).
		Post(fcmSendURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("fcm returned status %s", resp.Status())
	}
	return nil
}
