package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// TokenStore caches access tokens so that collaborating clients share one
// token instead of each authenticating separately.
//
// No lock guards a cold cache: two clients may authenticate at the same time.
// Both succeed and the last Set wins.
type TokenStore interface {
	// Get returns the cached token for key.
	// The bool is false when nothing is cached or the entry has expired.
	Get(ctx context.Context, key string) (*domain.AccessToken, bool, error)

	// Set stores a token under key for at most ttl.
	Set(ctx context.Context, key string, token domain.AccessToken, ttl time.Duration) error
}
