package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driving"
)

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeWorkflows implements driving.MemberWorkflows with canned results.
type fakeWorkflows struct {
	journey     *domain.MemberJourney
	journeyErr  error
	validation  *domain.ValidationResult
	membership  *domain.MembershipValidation
	expiry      *domain.ExpiryReport
	memberships *domain.MembershipReport
	pulls       map[string]*domain.SyncResult
	push        *domain.SyncResult
	pushErr     error

	gotReq       domain.RoleRequirements
	gotRules     domain.MembershipRules
	gotDays      int
	gotIDs       []string
	gotCreate    bool
	gotPushEmail string
}

var _ driving.MemberWorkflows = (*fakeWorkflows)(nil)

func (f *fakeWorkflows) GetMemberJourney(_ context.Context, _ string) (*domain.MemberJourney, error) {
	return f.journey, f.journeyErr
}

func (f *fakeWorkflows) ValidateCredentialsForRole(
	_ context.Context, _ string, req domain.RoleRequirements,
) *domain.ValidationResult {
	f.gotReq = req
	return f.validation
}

func (f *fakeWorkflows) ValidateMembershipForRole(
	_ context.Context, _ string, rules domain.MembershipRules,
) *domain.MembershipValidation {
	f.gotRules = rules
	return f.membership
}

func (f *fakeWorkflows) CredentialExpiryReport(_ context.Context, ids []string, days int) *domain.ExpiryReport {
	f.gotIDs = ids
	f.gotDays = days
	return f.expiry
}

func (f *fakeWorkflows) MembershipReport(_ context.Context, ids []string) *domain.MembershipReport {
	f.gotIDs = ids
	return f.memberships
}

func (f *fakeWorkflows) SyncMemberToLocal(_ context.Context, mid string, _ driven.LocalUserStore) *domain.SyncResult {
	if r, ok := f.pulls[mid]; ok {
		return r
	}
	return &domain.SyncResult{Status: domain.SyncNotFound, MID: mid, Message: "member not found"}
}

func (f *fakeWorkflows) BulkSyncToLocal(
	ctx context.Context, mids []string, users driven.LocalUserStore,
) []*domain.SyncResult {
	results := make([]*domain.SyncResult, 0, len(mids))
	for _, mid := range mids {
		results = append(results, f.SyncMemberToLocal(ctx, mid, users))
	}
	return results
}

func (f *fakeWorkflows) SyncLocalToJustGo(
	_ context.Context, user *domain.LocalUser, createIfMissing bool, _ driven.LocalUserStore,
) (*domain.SyncResult, error) {
	f.gotCreate = createIfMissing
	f.gotPushEmail = user.Email
	return f.push, f.pushErr
}

// fakeAdmin implements driving.AdminOverride, enforcing staff like the real one.
type fakeAdmin struct {
	actor         domain.Actor
	justification string
	data          map[string]any
	args          []string
}

var _ driving.AdminOverride = (*fakeAdmin)(nil)

func (f *fakeAdmin) meta(actor domain.Actor, action, justification string) (domain.OverrideMetadata, error) {
	f.actor = actor
	f.justification = justification
	if !actor.IsStaff {
		return domain.OverrideMetadata{}, domain.ErrNotStaff
	}
	return domain.OverrideMetadata{Actor: actor, Action: action, Justification: justification, Timestamp: testTime}, nil
}

func (f *fakeAdmin) CreateMemberProfile(
	_ context.Context, actor domain.Actor, justification string, data map[string]any,
) (*domain.OverrideResult[*domain.Member], error) {
	f.data = data
	meta, err := f.meta(actor, "create_member_profile", justification)
	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[*domain.Member]{
		Result:   &domain.Member{MemberID: "guid-new", MID: "M2002"},
		Override: meta,
	}, nil
}

func (f *fakeAdmin) UpdateMemberProfile(
	_ context.Context, actor domain.Actor, justification, memberID string, data map[string]any,
) (*domain.OverrideResult[*domain.Member], error) {
	f.data = data
	f.args = []string{memberID}
	meta, err := f.meta(actor, "update_member_profile", justification)
	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[*domain.Member]{Result: &domain.Member{MemberID: domain.ID(memberID)}, Override: meta}, nil
}

func (f *fakeAdmin) UpdateCandidateStatus(
	_ context.Context, actor domain.Actor, justification, bookingID, status string, issueAwards bool,
) (*domain.OverrideResult[*domain.EventCandidate], error) {
	f.args = []string{bookingID, status}
	if issueAwards {
		f.args = append(f.args, "awards")
	}
	meta, err := f.meta(actor, "update_candidate_status", justification)
	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[*domain.EventCandidate]{
		Result:   &domain.EventCandidate{BookingID: domain.ID(bookingID), Status: status},
		Override: meta,
	}, nil
}

func (f *fakeAdmin) AddCandidateToEvent(
	_ context.Context, actor domain.Actor, justification, eventID, ticketID, candidateID string,
) (*domain.OverrideResult[*domain.EventCandidate], error) {
	f.args = []string{eventID, ticketID, candidateID}
	meta, err := f.meta(actor, "add_candidate_to_event", justification)
	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[*domain.EventCandidate]{
		Result:   &domain.EventCandidate{EventID: domain.ID(eventID), CandidateID: domain.ID(candidateID)},
		Override: meta,
	}, nil
}

func (f *fakeAdmin) SyncLocalToJustGo(
	_ context.Context, actor domain.Actor, justification string, user *domain.LocalUser, createIfMissing bool,
) (*domain.OverrideResult[*domain.SyncResult], error) {
	f.args = []string{user.Email}
	if createIfMissing {
		f.args = append(f.args, "create")
	}
	meta, err := f.meta(actor, "sync_local_to_justgo", justification)
	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[*domain.SyncResult]{
		Result:   &domain.SyncResult{Status: domain.SyncSuccess, Action: domain.SyncCreated, MemberID: "guid-new"},
		Override: meta,
	}, nil
}

// fakeHealth implements driving.HealthChecker.
type fakeHealth struct {
	report *domain.HealthReport
	err    error
}

func (f *fakeHealth) HealthCheck(context.Context) (*domain.HealthReport, error) {
	return f.report, f.err
}

// fakeStaff records SetStaff calls against a user store.
type fakeStaff struct {
	users *memory.UserStore
}

func (f *fakeStaff) SetStaff(ctx context.Context, email string, staff bool) error {
	u, err := f.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	u.IsStaff = staff
	f.users.Add(*u)
	return nil
}

// testEnv is a full set of services over fakes and in-memory stores.
type testEnv struct {
	workflows *fakeWorkflows
	admin     *fakeAdmin
	health    *fakeHealth
	users     *memory.UserStore
	audit     *memory.AuditStore
}

// withServices installs test services for the duration of the test.
func withServices(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		workflows: &fakeWorkflows{},
		admin:     &fakeAdmin{},
		health:    &fakeHealth{},
		users:     memory.NewUserStore(),
		audit:     memory.NewAuditStore(),
	}
	oldServices, oldFactory := services, factory
	services = &Services{
		Health:          env.health,
		Workflows:       env.workflows,
		Admin:           env.admin,
		Users:           env.users,
		Staff:           &fakeStaff{users: env.users},
		Audit:           env.audit,
		ExpiryDaysAhead: 45,
	}
	factory = nil
	t.Cleanup(func() { services, factory = oldServices, oldFactory })
	return env
}

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
