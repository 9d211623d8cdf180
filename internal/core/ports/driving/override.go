package driving

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// AdminOverride runs write operations on behalf of staff users while
// writes are otherwise disabled. Every call is audited.
//
// All methods return domain.ErrNotStaff for non-staff actors without
// contacting JustGo.
type AdminOverride interface {
	CreateMemberProfile(
		ctx context.Context, actor domain.Actor, justification string, data map[string]any,
	) (*domain.OverrideResult[*domain.Member], error)

	UpdateMemberProfile(
		ctx context.Context, actor domain.Actor, justification, memberID string, data map[string]any,
	) (*domain.OverrideResult[*domain.Member], error)

	UpdateCandidateStatus(
		ctx context.Context, actor domain.Actor, justification, bookingID, status string, issueAwards bool,
	) (*domain.OverrideResult[*domain.EventCandidate], error)

	AddCandidateToEvent(
		ctx context.Context, actor domain.Actor, justification, eventID, ticketID, candidateID string,
	) (*domain.OverrideResult[*domain.EventCandidate], error)

	SyncLocalToJustGo(
		ctx context.Context, actor domain.Actor, justification string, user *domain.LocalUser, createIfMissing bool,
	) (*domain.OverrideResult[*domain.SyncResult], error)
}
