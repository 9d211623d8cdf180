package services

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

var (
	staff   = domain.Actor{ID: "1", Username: "ops", IsStaff: true}
	visitor = domain.Actor{ID: "2", Username: "guest"}
)

func newTestOverride(t *testing.T, audit driven.AuditLogger) (*AdminOverrideService, *fakeMemberAPI, *memory.UserStore) {
	t.Helper()
	workflows, api := newTestWorkflows(t)
	users := memory.NewUserStore()
	svc := NewAdminOverrideService(api, workflows, users, audit)
	svc.now = fixedClock(testNow)
	return svc, api, users
}

func profileData() map[string]any {
	return map[string]any{
		"firstName":    "Niamh",
		"lastName":     "Walsh",
		"emailAddress": "niamh@example.com",
		"dateOfBirth":  "1995-07-08",
	}
}

func TestOverride_RequiresStaff(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, api, _ := newTestOverride(t, audit)

	_, err := svc.CreateMemberProfile(context.Background(), visitor, "needed", profileData())

	assert.ErrorIs(t, err, domain.ErrNotStaff)
	assert.Empty(t, api.Calls())
	assert.Empty(t, api.writeMode)
	entries, _ := audit.Recent(context.Background(), 0)
	assert.Empty(t, entries)
}

func TestOverride_RequiresJustification(t *testing.T) {
	svc, api, _ := newTestOverride(t, memory.NewAuditStore())

	_, err := svc.UpdateCandidateStatus(context.Background(), staff, "  ", "B1", "Attended", false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, api.Calls())
}

func TestOverride_CreateMemberProfile(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, api, _ := newTestOverride(t, audit)
	ctx := context.Background()
	require.False(t, api.WritesAllowed(ctx))

	result, err := svc.CreateMemberProfile(ctx, staff, "new volunteer onboarding", profileData())

	require.NoError(t, err)
	assert.Equal(t, domain.ID("G-NEW"), result.Result.MemberID)
	assert.Equal(t, staff, result.Override.Actor)
	assert.Equal(t, "new volunteer onboarding", result.Override.Justification)
	assert.Equal(t, ActionCreateMemberProfile, result.Override.Action)
	assert.Equal(t, testNow, result.Override.Timestamp)

	// The override only applied to the wrapped call.
	assert.Equal(t, []bool{true}, api.writeMode)
	assert.False(t, api.WritesAllowed(ctx))
	_, err = api.CreateMemberProfile(ctx, profileData())
	assert.ErrorIs(t, err, domain.ErrReadOnlyMode)

	entries, err := audit.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "niamh@example.com", entries[0].Target)
	assert.Equal(t, "ops", entries[0].Actor.Username)

	var after domain.Member
	require.NoError(t, json.Unmarshal(entries[0].After, &after))
	assert.Equal(t, domain.ID("G-NEW"), after.MemberID)
}

func TestOverride_FailureIsAuditedAndReturned(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, api, _ := newTestOverride(t, audit)
	api.errs["UpdateMemberProfile:"+testGUID] = errTransport
	ctx := context.Background()

	_, err := svc.UpdateMemberProfile(ctx, staff, "fix typo", testGUID, map[string]any{"firstName": "Aoife"})

	assert.ErrorIs(t, err, errTransport)
	assert.False(t, api.WritesAllowed(ctx))
	entries, _ := audit.Recent(ctx, 1)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Error, "connection error")
	assert.NotEmpty(t, entries[0].Before)
}

func TestOverride_UpdateMemberProfile_CapturesBefore(t *testing.T) {
	svc, _, _ := newTestOverride(t, memory.NewAuditStore())

	result, err := svc.UpdateMemberProfile(context.Background(), staff, "fix typo", testGUID,
		map[string]any{"lastName": "Ní Bhroin"})

	require.NoError(t, err)
	before, ok := result.Override.Before.(*domain.Member)
	require.True(t, ok)
	assert.Equal(t, "Byrne", before.LastName)
}

func TestOverride_BeforeStateFailureIgnored(t *testing.T) {
	svc, api, _ := newTestOverride(t, memory.NewAuditStore())
	api.errs["GetMemberByID:"+testGUID] = errTransport

	result, err := svc.UpdateMemberProfile(context.Background(), staff, "fix typo", testGUID,
		map[string]any{"lastName": "Walsh"})

	require.NoError(t, err)
	assert.Nil(t, result.Override.Before)
}

func TestOverride_AuditFailureDoesNotBlock(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	audit := &failingAuditLogger{}
	svc, _, _ := newTestOverride(t, audit)

	result, err := svc.UpdateCandidateStatus(context.Background(), staff, "attended offline", "B1", "Attended", true)

	require.NoError(t, err)
	assert.Equal(t, "Attended", result.Result.Status)
	assert.Equal(t, 1, audit.attempts)
	assert.Contains(t, buf.String(), "audit log failed")
}

func TestOverride_NilAuditLogger(t *testing.T) {
	svc, _, _ := newTestOverride(t, nil)

	result, err := svc.AddCandidateToEvent(context.Background(), staff, "late entry", "E1", "T1", "C1")

	require.NoError(t, err)
	assert.Equal(t, domain.ID("C1"), result.Result.CandidateID)
}

func TestOverride_SyncLocalToJustGo(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, api, users := newTestOverride(t, audit)
	user := users.Add(domain.LocalUser{Email: "new@example.com", FirstName: "Niamh"})

	result, err := svc.SyncLocalToJustGo(context.Background(), staff, "migrate legacy record", &user, true)

	require.NoError(t, err)
	assert.Equal(t, domain.SyncSuccess, result.Result.Status)
	assert.Equal(t, domain.SyncCreated, result.Result.Action)
	assert.Len(t, api.created, 1)

	stored, err := users.Get(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "G-NEW", stored.JustGoMemberID)

	entries, _ := audit.Recent(context.Background(), 1)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionSyncLocalToJustGo, entries[0].Action)
}

func TestOverride_SyncFailureAuditedAsFailure(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, api, users := newTestOverride(t, audit)
	api.errs["CreateMemberProfile:new@example.com"] = errTransport
	user := users.Add(domain.LocalUser{Email: "new@example.com", FirstName: "Niamh"})
	ctx := context.Background()

	result, err := svc.SyncLocalToJustGo(ctx, staff, "migrate legacy record", &user, true)

	require.NoError(t, err)
	assert.Equal(t, domain.SyncError, result.Result.Status)
	assert.Empty(t, api.created)

	entries, _ := audit.Recent(ctx, 1)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Contains(t, entries[0].Error, "connection error")
	assert.Empty(t, entries[0].After)
}

func TestOverride_SyncNotFoundIsNotAFailure(t *testing.T) {
	audit := memory.NewAuditStore()
	svc, _, users := newTestOverride(t, audit)
	user := users.Add(domain.LocalUser{Email: "nobody@example.com"})
	ctx := context.Background()

	result, err := svc.SyncLocalToJustGo(ctx, staff, "check link", &user, false)

	require.NoError(t, err)
	assert.Equal(t, domain.SyncNotFound, result.Result.Status)
	entries, _ := audit.Recent(ctx, 1)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
}

func TestOverride_ConcurrentCallersIsolated(t *testing.T) {
	svc, api, _ := newTestOverride(t, nil)
	ctx := context.Background()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, _ = svc.UpdateCandidateStatus(ctx, staff, "bulk fix", "B1", "Attended", false)
		}
	}()
	for i := 0; i < 50; i++ {
		_, err := api.UpdateCandidateStatus(ctx, "B2", "Attended", false)
		assert.ErrorIs(t, err, domain.ErrReadOnlyMode)
	}
	<-done
}
