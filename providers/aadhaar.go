package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/wecarehhcs/homecare-api/config"
)

// AadhaarVerifier drives the provider's OKYC OTP flow.
type AadhaarVerifier interface {
	GenerateOTP(ctx context.Context, aadhaarNumber string) (string, error)
	VerifyOTP(ctx context.Context, referenceID, otp string) error
}

const accessTokenKey = "aadhaar_access_token"

type aadhaarProvider struct {
	client    *resty.Client
	apiKey    string
	apiSecret string

	mu         sync.Mutex
	tokenCache *gocache.Cache
}

// NewAadhaarVerifier builds an OKYC provider client. The provider access
// token is cached and refreshed on miss under a mutex so concurrent requests
// do not stampede the authenticate endpoint.
func NewAadhaarVerifier(conf *config.Config) AadhaarVerifier {
	client := resty.New().
		SetBaseURL(conf.SandboxBaseURL).
		SetTimeout(30 * time.Second)
	return &aadhaarProvider{
		client:     client,
		apiKey:     conf.SandboxAPIKey,
		apiSecret:  conf.SandboxAPISecret,
		tokenCache: gocache.New(23*time.Hour, 30*time.Minute),
	}
}

type authenticateResponse struct {
	AccessToken string `json:"access_token"`
}

type okycOTPResponse struct {
	Data struct {
		ReferenceID int64  `json:"reference_id"`
		Message     string `json:"message"`
	} `json:"data"`
}

type okycVerifyResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (p *aadhaarProvider) accessToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tok, ok := p.tokenCache.Get(accessTokenKey); ok {
		return tok.(string), nil
	}

	var out authenticateResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", p.apiKey).
		SetHeader("x-api-secret", p.apiSecret).
		SetResult(&out).
		Post("/authenticate")
	if err != nil {
		return "", err
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", fmt.Errorf("aadhaar provider authenticate returned %s", resp.Status())
	}

	p.tokenCache.Set(accessTokenKey, out.AccessToken, gocache.DefaultExpiration)
	return out.AccessToken, nil
}

// GenerateOTP asks the provider to send an OTP to the aadhaar-linked mobile
// and returns the reference id for verification.
func (p *aadhaarProvider) GenerateOTP(ctx context.Context, aadhaarNumber string) (string, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return "", err
	}

	var out okycOTPResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", token).
		SetHeader("x-api-key", p.apiKey).
		SetBody(map[string]interface{}{"aadhaar_number": aadhaarNumber}).
		SetResult(&out).
		Post("/kyc/aadhaar/okyc/otp")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("aadhaar otp request returned %s: %s", resp.Status(), out.Data.Message)
	}
	return fmt.Sprintf("%d", out.Data.ReferenceID), nil
}

// VerifyOTP confirms the OTP for a previously issued reference id.
func (p *aadhaarProvider) VerifyOTP(ctx context.Context, referenceID, otp string) error {
	token, err := p.accessToken(ctx)
	if err != nil {
		return err
	}

	var out okycVerifyResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Authorization", token).
		SetHeader("x-api-key", p.apiKey).
		SetBody(map[string]interface{}{"reference_id": referenceID, "otp": otp}).
		SetResult(&out).
		Post("/kyc/aadhaar/okyc/otp/verify")
	if err != nil {
		return err
	}
	if resp.IsError() || out.Data.Status != "VALID" {
		return fmt.Errorf("aadhaar verification failed: %s", out.Data.Message)
	}
	return nil
}
