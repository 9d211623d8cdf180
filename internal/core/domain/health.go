package domain

import "time"

// HealthReport describes the state of the JustGo connection.
type HealthReport struct {
	Authenticated   bool      `json:"authenticated"`
	TokenExpiresAt  time.Time `json:"token_expires_at"`
	RequestCount    int64     `json:"request_count"`
	LastRequestTime time.Time `json:"last_request_time"`
	ReadOnly        bool      `json:"read_only"`
	BaseURL         string    `json:"base_url"`
	APIVersion      string    `json:"api_version"`
}
