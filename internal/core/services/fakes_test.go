package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

var errTransport = errors.New("justgo: connection error: dial tcp: refused")

// fakeMemberAPI implements driven.MemberAPI over fixtures.
type fakeMemberAPI struct {
	mu sync.Mutex

	readOnly bool

	byMID       map[string][]domain.MemberSummary
	byEmail     map[string][]domain.MemberSummary
	members     map[string]*domain.Member
	credentials map[string][]domain.Credential
	candidates  map[string][]domain.EventCandidate

	// errs fails the named method for the given argument.
	errs map[string]error

	calls     []string
	created   []map[string]any
	updated   map[string]map[string]any
	writeMode []bool
}

func newFakeMemberAPI() *fakeMemberAPI {
	return &fakeMemberAPI{
		readOnly:    true,
		byMID:       map[string][]domain.MemberSummary{},
		byEmail:     map[string][]domain.MemberSummary{},
		members:     map[string]*domain.Member{},
		credentials: map[string][]domain.Credential{},
		candidates:  map[string][]domain.EventCandidate{},
		errs:        map[string]error{},
		updated:     map[string]map[string]any{},
	}
}

var _ driven.MemberAPI = (*fakeMemberAPI)(nil)

// addMember registers a member under its MID, email and GUID.
func (f *fakeMemberAPI) addMember(m *domain.Member, creds ...domain.Credential) {
	summary := domain.MemberSummary{
		MemberID:     m.MemberID,
		MemberDocID:  m.MemberDocID,
		MID:          m.MID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		EmailAddress: m.EmailAddress,
	}
	f.byMID[m.MID.String()] = []domain.MemberSummary{summary}
	if m.EmailAddress != "" {
		f.byEmail[m.EmailAddress] = []domain.MemberSummary{summary}
	}
	f.members[m.MemberID.String()] = m
	f.credentials[m.MemberID.String()] = creds
}

func (f *fakeMemberAPI) call(name, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+":"+arg)
	return f.errs[name+":"+arg]
}

func (f *fakeMemberAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeMemberAPI) FindMemberByMID(_ context.Context, mid string) ([]domain.MemberSummary, error) {
	if err := f.call("FindMemberByMID", mid); err != nil {
		return nil, err
	}
	if hits, ok := f.byMID[mid]; ok {
		return hits, nil
	}
	return []domain.MemberSummary{}, nil
}

func (f *fakeMemberAPI) FindMemberByEmail(_ context.Context, email string) ([]domain.MemberSummary, error) {
	if err := f.call("FindMemberByEmail", email); err != nil {
		return nil, err
	}
	if hits, ok := f.byEmail[email]; ok {
		return hits, nil
	}
	return []domain.MemberSummary{}, nil
}

func (f *fakeMemberAPI) GetMemberByID(_ context.Context, id string) (*domain.Member, error) {
	if err := f.call("GetMemberByID", id); err != nil {
		return nil, err
	}
	m, ok := f.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemberAPI) GetMemberCredentials(_ context.Context, id string) ([]domain.Credential, error) {
	if err := f.call("GetMemberCredentials", id); err != nil {
		return nil, err
	}
	return f.credentials[id], nil
}

func (f *fakeMemberAPI) FindEventCandidates(_ context.Context, eventID string) ([]domain.EventCandidate, error) {
	if err := f.call("FindEventCandidates", eventID); err != nil {
		return nil, err
	}
	return f.candidates[eventID], nil
}

func (f *fakeMemberAPI) checkWritable(ctx context.Context) error {
	allowed := f.WritesAllowed(ctx)
	f.mu.Lock()
	f.writeMode = append(f.writeMode, allowed)
	f.mu.Unlock()
	if !allowed {
		return domain.ErrReadOnlyMode
	}
	return nil
}

func (f *fakeMemberAPI) UpdateCandidateStatus(
	ctx context.Context, bookingID, status string, _ bool,
) (*domain.EventCandidate, error) {
	if err := f.checkWritable(ctx); err != nil {
		return nil, err
	}
	if err := f.call("UpdateCandidateStatus", bookingID); err != nil {
		return nil, err
	}
	return &domain.EventCandidate{BookingID: domain.ID(bookingID), Status: status}, nil
}

func (f *fakeMemberAPI) AddCandidateToEvent(
	ctx context.Context, eventID, ticketID, candidateID string,
) (*domain.EventCandidate, error) {
	if err := f.checkWritable(ctx); err != nil {
		return nil, err
	}
	if err := f.call("AddCandidateToEvent", eventID); err != nil {
		return nil, err
	}
	return &domain.EventCandidate{
		EventID:     domain.ID(eventID),
		TicketID:    domain.ID(ticketID),
		CandidateID: domain.ID(candidateID),
	}, nil
}

func (f *fakeMemberAPI) CreateMemberProfile(ctx context.Context, data map[string]any) (*domain.Member, error) {
	if err := f.checkWritable(ctx); err != nil {
		return nil, err
	}
	email, _ := data["emailAddress"].(string)
	if err := f.call("CreateMemberProfile", email); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.created = append(f.created, data)
	f.mu.Unlock()
	return &domain.Member{MemberID: "G-NEW", MemberDocID: "D-NEW", MID: "MNEW", EmailAddress: email}, nil
}

func (f *fakeMemberAPI) UpdateMemberProfile(
	ctx context.Context, memberID string, data map[string]any,
) (*domain.Member, error) {
	if err := f.checkWritable(ctx); err != nil {
		return nil, err
	}
	if err := f.call("UpdateMemberProfile", memberID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.updated[memberID] = data
	f.mu.Unlock()
	if m, ok := f.members[memberID]; ok {
		return m, nil
	}
	return &domain.Member{MemberID: domain.ID(memberID)}, nil
}

func (f *fakeMemberAPI) WritesAllowed(ctx context.Context) bool {
	return domain.WritesAllowed(ctx, f.readOnly)
}

// failingAuditLogger always fails to record.
type failingAuditLogger struct {
	attempts int
}

func (l *failingAuditLogger) Record(context.Context, domain.AuditEntry) error {
	l.attempts++
	return errors.New("audit table locked")
}

func (l *failingAuditLogger) Recent(context.Context, int) ([]domain.AuditEntry, error) {
	return nil, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
