package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// Ensure AuditStore implements the interface.
var _ driven.AuditLogger = (*AuditStore)(nil)

// AuditStore is an in-memory implementation of driven.AuditLogger.
type AuditStore struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

// NewAuditStore creates a new in-memory audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Record appends an entry, assigning an ID if it has none.
func (s *AuditStore) Record(_ context.Context, entry domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *AuditStore) Recent(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]domain.AuditEntry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, s.entries[i])
	}
	return result, nil
}
