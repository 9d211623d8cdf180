// Package memory provides a process-local token store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

type entry struct {
	token     domain.AccessToken
	expiresAt time.Time
}

// Store is an in-memory driven.TokenStore shared by every client in the
// process that is given the same instance. Entries expire after their TTL.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// New creates an empty token store.
func New() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the token for key if present and not expired.
func (s *Store) Get(_ context.Context, key string) (*domain.AccessToken, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(s.now()) {
		s.evict(key)
		return nil, false, nil
	}
	token := e.token
	return &token, true, nil
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// evict deletes key only if it is still expired, so a Set that landed
// after the read is kept.
func (s *Store) evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && e.expired(s.now()) {
		delete(s.entries, key)
	}
}

// Set stores token under key. A non-positive ttl never expires.
func (s *Store) Set(_ context.Context, key string, token domain.AccessToken, ttl time.Duration) error {
	e := entry{token: token}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}
