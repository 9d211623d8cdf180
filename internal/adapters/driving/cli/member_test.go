package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

func TestMemberJourney_Table(t *testing.T) {
	env := withServices(t)
	env.workflows.journey = &domain.MemberJourney{
		Member: &domain.Member{
			MemberID: "guid-1", MID: "M1001", FirstName: "Jane", LastName: "Doe",
			EmailAddress: "jane@example.com", MemberStatus: "Registered",
		},
		Credentials: []domain.Credential{
			{Name: "Garda Vetting", Status: "Active", ExpiryDate: "2025-01-31"},
			{Name: "First Aid", Status: "Expired"},
		},
	}

	out, err := runCLI(t, "member", "journey", "M1001")

	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "Garda Vetting")
	assert.Contains(t, out, "2025-01-31")
	assert.Contains(t, out, "First Aid")
}

func TestMemberJourney_NotFound(t *testing.T) {
	env := withServices(t)
	env.workflows.journeyErr = domain.ErrNotFound

	_, err := runCLI(t, "member", "journey", "M404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemberValidate_PassesRequirements(t *testing.T) {
	env := withServices(t)
	age := 34
	env.workflows.validation = &domain.ValidationResult{
		MemberID:           "M1001",
		OverallStatus:      domain.ValidationFail,
		RequirementsMet:    []string{"credential Garda Vetting: Garda Vetting"},
		RequirementsFailed: []string{"missing active credential: Safeguarding"},
		Warnings:           []string{"credential Garda Vetting expires 2024-07-01, before role ends 2024-08-31"},
		Age:                &age,
	}

	out, err := runCLI(t, "member", "validate", "M1001",
		"--require", "Garda Vetting", "--require", "Safeguarding",
		"--min-age", "18", "--valid-until", "2024-08-31")

	require.NoError(t, err)
	assert.Equal(t, []string{"Garda Vetting", "Safeguarding"}, env.workflows.gotReq.RequiredCredentials)
	assert.Equal(t, 18, env.workflows.gotReq.MinimumAge)
	assert.Equal(t, time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC), env.workflows.gotReq.ValidUntil)

	assert.Contains(t, out, "FAIL M1001")
	assert.Contains(t, out, "Age: 34")
	assert.Contains(t, out, "missing active credential: Safeguarding")
	assert.Contains(t, out, "before role ends")
}

func TestMemberValidate_BadDate(t *testing.T) {
	withServices(t)

	_, err := runCLI(t, "member", "validate", "M1001", "--valid-until", "31/08/2024")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--valid-until")
}

func TestMemberValidate_JSON(t *testing.T) {
	env := withServices(t)
	env.workflows.validation = &domain.ValidationResult{MemberID: "M1001", OverallStatus: domain.ValidationPass}

	out, err := runCLI(t, "--json", "member", "validate", "M1001")

	require.NoError(t, err)
	var got domain.ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Passed())
}

func TestMemberMembership(t *testing.T) {
	env := withServices(t)
	env.workflows.membership = &domain.MembershipValidation{
		MemberID:      "M1001",
		OverallStatus: domain.ValidationPass,
		MemberTypes:   []string{"Adult", "Coach"},
		Checks: []domain.RuleCheck{
			{Rule: domain.RuleActiveMembership, Passed: true, Detail: "2 active memberships"},
			{Rule: domain.RuleRequiredTypes, Passed: true, Detail: "has Coach"},
		},
	}

	out, err := runCLI(t, "member", "membership", "M1001",
		"--required", "Coach", "--excluded", "Suspended")

	require.NoError(t, err)
	assert.Equal(t, []string{"Coach"}, env.workflows.gotRules.Required)
	assert.Equal(t, []string{"Suspended"}, env.workflows.gotRules.Excluded)
	assert.Empty(t, env.workflows.gotRules.Allowed)

	assert.Contains(t, out, "PASS M1001")
	assert.Contains(t, out, "Adult, Coach")
	assert.Contains(t, out, "required_types")
}
