package driven

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// AuditLogger records admin overrides.
// Callers treat it as best-effort: a failing logger never blocks the
// operation being audited.
type AuditLogger interface {
	// Record persists one audit entry.
	Record(ctx context.Context, entry domain.AuditEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
