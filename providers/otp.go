package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wecarehhcs/homecare-api/config"
)

// OTPSender sends and verifies SMS one-time passwords.
type OTPSender interface {
	Send(ctx context.Context, phone string) (string, error)
	Verify(ctx context.Context, sessionID, otp string) error
}

type otpResponse struct {
	Status  string `json:"Status"`
	Details string `json:"Details"`
}

type otpProvider struct {
	client *resty.Client
	apiKey string
}

// NewOTPSender builds an OTP provider client from the config.
func NewOTPSender(conf *config.Config) OTPSender {
	client := resty.New().
		SetBaseURL(conf.OTPBaseURL).
		SetTimeout(10 * time.Second)
	return &otpProvider{client: client, apiKey: conf.OTPAPIKey}
}

// Send requests an autogenerated OTP for the phone number and returns the
// provider session id used later to verify it.
func (p *otpProvider) Send(ctx context.Context, phone string) (string, error) {
	var out otpResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/%s/SMS/%s/AUTOGEN", p.apiKey, phone))
	if err != nil {
		return "", err
	}
	if resp.IsError() || out.Status != "Success" {
		return "", fmt.Errorf("otp provider returned %s: %s", resp.Status(), out.Details)
	}
	return out.Details, nil
}

// Verify checks the OTP against the provider session.
func (p *otpProvider) Verify(ctx context.Context, sessionID, otp string) error {
	var out otpResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get(fmt.Sprintf("/%s/SMS/VERIFY/%s/%s", p.apiKey, sessionID, otp))
	if err != nil {
		return err
	}
	if resp.IsError() || out.Status != "Success" {
		return fmt.Errorf("otp verification failed: %s", out.Details)
	}
	return nil
}
