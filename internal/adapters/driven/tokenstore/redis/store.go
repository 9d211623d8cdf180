// Package redis provides a token store shared across processes through Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// DefaultPrefix namespaces token keys.
const DefaultPrefix = "justgo:"

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// Store is a Redis-backed driven.TokenStore. Key expiry is left to Redis.
type Store struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get returns the token for key, if Redis still holds it.
func (s *Store) Get(ctx context.Context, key string) (*domain.AccessToken, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var token domain.AccessToken
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, false, fmt.Errorf("decode token %s: %w", key, err)
	}
	return &token, true, nil
}

// Set stores token under key for ttl. A non-positive ttl never expires.
func (s *Store) Set(ctx context.Context, key string, token domain.AccessToken, ttl time.Duration) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
