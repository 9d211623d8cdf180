package driven

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// LocalUserStore is the local user model the sync workflows write to.
// The JustGo client itself never holds a database handle; everything it
// persists goes through this interface.
type LocalUserStore interface {
	// UpdateOrCreateByEmail upserts a user keyed on email.
	// The bool reports whether a new user was created.
	UpdateOrCreateByEmail(ctx context.Context, email string, fields domain.LocalUserFields) (*domain.LocalUser, bool, error)

	// SaveLinkage stamps JustGo identifiers onto an existing user.
	SaveLinkage(ctx context.Context, userID string, link domain.JustGoLink) error

	// Get retrieves a user by ID. Returns domain.ErrNotFound if missing.
	Get(ctx context.Context, id string) (*domain.LocalUser, error)

	// GetByEmail retrieves a user by email. Returns domain.ErrNotFound if missing.
	GetByEmail(ctx context.Context, email string) (*domain.LocalUser, error)

	// List returns all users ordered by email.
	List(ctx context.Context) ([]domain.LocalUser, error)
}
