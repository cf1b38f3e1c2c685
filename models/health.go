package models

// HealthCheckResponse returns the response for the healthcheck endpoint
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
