package driven

import (
	"context"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

// MemberAPI is the JustGo member, credential and event surface consumed
// by the workflow services. The justgo connector's Client implements it.
type MemberAPI interface {
	// FindMemberByMID searches by MID. An empty slice means not found.
	FindMemberByMID(ctx context.Context, mid string) ([]domain.MemberSummary, error)

	// FindMemberByEmail searches by email. An empty slice means not found.
	FindMemberByEmail(ctx context.Context, email string) ([]domain.MemberSummary, error)

	// GetMemberByID fetches full member detail by member GUID.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// GetMemberCredentials fetches every credential for a member GUID.
	GetMemberCredentials(ctx context.Context, memberID string) ([]domain.Credential, error)

	// FindEventCandidates lists the candidates booked onto an event.
	FindEventCandidates(ctx context.Context, eventID string) ([]domain.EventCandidate, error)

	// UpdateCandidateStatus changes a booking's status. Write operation.
	UpdateCandidateStatus(ctx context.Context, bookingID, status string, issueAwards bool) (*domain.EventCandidate, error)

	// AddCandidateToEvent books a candidate onto an event. Write operation.
	AddCandidateToEvent(ctx context.Context, eventID, ticketID, candidateID string) (*domain.EventCandidate, error)

	// CreateMemberProfile creates a member. Write operation.
	CreateMemberProfile(ctx context.Context, data map[string]any) (*domain.Member, error)

	// UpdateMemberProfile updates a member. Write operation.
	UpdateMemberProfile(ctx context.Context, memberID string, data map[string]any) (*domain.Member, error)

	// WritesAllowed reports whether write operations may be sent under ctx.
	WritesAllowed(ctx context.Context) bool
}
