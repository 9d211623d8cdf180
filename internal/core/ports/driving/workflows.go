package driving

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// MemberWorkflows exposes the composite member operations.
type MemberWorkflows interface {
	MemberSync

	// GetMemberJourney runs search, detail, credentials and id extraction
	// for one MID. Returns domain.ErrNotFound if the search is empty.
	GetMemberJourney(ctx context.Context, mid string) (*domain.MemberJourney, error)

	// ValidateCredentialsForRole checks a member against role requirements.
	// Identifiers shorter than ten characters are treated as MIDs, longer
	// ones as member GUIDs. Never returns nil.
	ValidateCredentialsForRole(ctx context.Context, memberIDOrMID string, req domain.RoleRequirements) *domain.ValidationResult

	// ValidateMembershipForRole checks a member's active membership types.
	ValidateMembershipForRole(ctx context.Context, memberIDOrMID string, rules domain.MembershipRules) *domain.MembershipValidation

	// CredentialExpiryReport lists credentials expiring within daysAhead
	// for each member GUID. Per-member failures are collected, not returned.
	CredentialExpiryReport(ctx context.Context, memberIDs []string, daysAhead int) *domain.ExpiryReport

	// MembershipReport aggregates active membership types for each member GUID.
	MembershipReport(ctx context.Context, memberIDs []string) *domain.MembershipReport
}
