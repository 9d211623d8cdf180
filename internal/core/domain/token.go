package domain

import "time"

// AccessToken is a JustGo bearer token.
// ExpiresAt already has the safety buffer subtracted, so a token is
// treated as expired slightly before the server would reject it.
type AccessToken struct {
	// Token is the bearer token value.
	Token string `json:"access_token"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// ExpiresAt is the buffered expiry time.
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token is present and not past its buffered expiry.
func (t *AccessToken) Valid(now time.Time) bool {
	if t == nil || t.Token == "" {
		return false
	}
	return now.Before(t.ExpiresAt)
}
