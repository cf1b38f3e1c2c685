package config

import (
	"encoding/json"
	"net/http"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/wecarehhcs/homecare-api/models"
)

// Config holds the project config values
type Config struct {
	Url                 string `envconfig:"DB_URI" default:"mongodb://127.0.0.1:27017"`
	DatabaseName        string `envconfig:"DB_NAME" default:"homecare"`
	BaseUrl             string `envconfig:"BASE_URL" default:"http://localhost:8080"`
	Port                string `envconfig:"PORT" default:"8080"`
	Environment         string `envconfig:"ENVIRONMENT" default:"local"`
	JWTSecret           string `envconfig:"JWT_SECRET"`
	SendgridAPIKey      string `envconfig:"SENDGRID_API_KEY"`
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	FCMServerKey        string `envconfig:"FCM_SERVER_KEY"`
	OTPAPIKey           string `envconfig:"OTP_API_KEY"`
	OTPBaseURL          string `envconfig:"OTP_BASE_URL" default:"https://2factor.in/API/V1"`
	SandboxAPIKey       string `envconfig:"SANDBOX_API_KEY"`
	SandboxAPISecret    string `envconfig:"SANDBOX_API_SECRET"`
	SandboxBaseURL      string `envconfig:"SANDBOX_BASE_URL" default:"https://api.sandbox.co.in"`
	UploadsDir          string `envconfig:"UPLOADS_DIR" default:"uploads"`
	MediaDir            string `envconfig:"MEDIA_DIR" default:"media"`
}

// New sets up all config related services
func New() *Config {
	logger, err := setLogger("local")
	if err == nil {
		defer logger.Sync()
		_ = zap.ReplaceGlobals(logger)
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		zap.S().With(err).Error("failed to process environment config")
	}
	if c.Environment != "local" {
		if l, err := setLogger(c.Environment); err == nil {
			_ = zap.ReplaceGlobals(l)
		}
	}
	return &c
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	resp := models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: err.Error()}}
	b, _ := json.Marshal(resp)
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
