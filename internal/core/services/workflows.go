package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/extract"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driving"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// Ensure MemberWorkflowService implements the interface.
var _ driving.MemberWorkflows = (*MemberWorkflowService)(nil)

const (
	// MIDMaxLength separates MIDs from member GUIDs: identifiers shorter
	// than this are MIDs.
	MIDMaxLength = 10

	// ExpiringSoonDays is the window used for the expiring count in a
	// validation summary.
	ExpiringSoonDays = 30
)

// MemberWorkflowService composes JustGo calls into member workflows.
type MemberWorkflowService struct {
	api driven.MemberAPI
	now func() time.Time
}

// NewMemberWorkflowService creates a new workflow service.
func NewMemberWorkflowService(api driven.MemberAPI) *MemberWorkflowService {
	return &MemberWorkflowService{
		api: api,
		now: time.Now,
	}
}

// IsMID reports whether an identifier is a short MID rather than a member GUID.
func IsMID(id string) bool {
	return len(id) < MIDMaxLength
}

// GetMemberJourney runs search, detail and credential fetches for a MID.
func (s *MemberWorkflowService) GetMemberJourney(ctx context.Context, mid string) (*domain.MemberJourney, error) {
	search, err := s.api.FindMemberByMID(ctx, mid)
	if err != nil {
		return nil, fmt.Errorf("find member %s: %w", mid, err)
	}
	if len(search) == 0 {
		return nil, fmt.Errorf("member with MID %s: %w", mid, domain.ErrNotFound)
	}

	memberID := search[0].MemberID
	if memberID.IsZero() {
		return nil, fmt.Errorf("search result for MID %s has no memberId: %w", mid, domain.ErrInvalidResponse)
	}

	member, err := s.api.GetMemberByID(ctx, memberID.String())
	if err != nil {
		return nil, fmt.Errorf("get member %s: %w", memberID, err)
	}

	creds, err := s.api.GetMemberCredentials(ctx, memberID.String())
	if err != nil {
		return nil, fmt.Errorf("get credentials for %s: %w", memberID, err)
	}

	return &domain.MemberJourney{
		Search:      search,
		Member:      member,
		Credentials: creds,
		Identifiers: extract.MemberIDs(member),
	}, nil
}

// ValidateCredentialsForRole checks required credentials, minimum age and
// the role window. Failures of any kind are reported in the result.
func (s *MemberWorkflowService) ValidateCredentialsForRole(
	ctx context.Context, memberIDOrMID string, req domain.RoleRequirements,
) *domain.ValidationResult {
	now := s.now()
	result := &domain.ValidationResult{
		MemberID:           memberIDOrMID,
		RequirementsMet:    []string{},
		RequirementsFailed: []string{},
		Warnings:           []string{},
		CheckedAt:          now,
	}

	member, creds, err := s.memberWithCredentials(ctx, memberIDOrMID)
	if err != nil {
		logger.Warn("validate %s: %v", memberIDOrMID, err)
		result.OverallStatus = domain.ValidationError
		result.Error = err.Error()
		return result
	}

	active := extract.ActiveCredentials(creds)
	result.Credentials = domain.CredentialSummary{
		Total:        len(creds),
		Active:       len(active),
		Expired:      len(extract.ExpiredCredentials(creds)),
		ExpiringSoon: len(extract.ExpiringCredentials(creds, ExpiringSoonDays, now)),
		Matched:      map[string]string{},
	}

	for _, required := range req.RequiredCredentials {
		match, ok := matchCredential(active, required)
		if !ok {
			result.RequirementsFailed = append(result.RequirementsFailed,
				fmt.Sprintf("missing active credential: %s", required))
			continue
		}
		result.Credentials.Matched[required] = match.Name
		result.RequirementsMet = append(result.RequirementsMet,
			fmt.Sprintf("credential %s: %s", required, match.Name))
	}

	if dob, err := domain.ParseDate(member.DateOfBirth); err == nil {
		age := ageInYears(dob, now)
		result.Age = &age
	}
	if req.MinimumAge > 0 {
		switch {
		case result.Age == nil:
			result.RequirementsFailed = append(result.RequirementsFailed,
				fmt.Sprintf("minimum age %d: date of birth unavailable", req.MinimumAge))
		case *result.Age < req.MinimumAge:
			result.RequirementsFailed = append(result.RequirementsFailed,
				fmt.Sprintf("minimum age %d: member is %d", req.MinimumAge, *result.Age))
		default:
			result.RequirementsMet = append(result.RequirementsMet,
				fmt.Sprintf("minimum age %d: member is %d", req.MinimumAge, *result.Age))
		}
	}

	if !req.ValidUntil.IsZero() {
		result.Warnings = append(result.Warnings, roleWindowWarnings(active, req.ValidUntil)...)
	}

	result.OverallStatus = domain.ValidationPass
	if len(result.RequirementsFailed) > 0 {
		result.OverallStatus = domain.ValidationFail
	}
	return result
}

// memberWithCredentials resolves a MID through the full journey and a
// GUID through direct detail and credential fetches.
func (s *MemberWorkflowService) memberWithCredentials(
	ctx context.Context, id string,
) (*domain.Member, []domain.Credential, error) {
	if IsMID(id) {
		journey, err := s.GetMemberJourney(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return journey.Member, journey.Credentials, nil
	}

	creds, err := s.api.GetMemberCredentials(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get credentials for %s: %w", id, err)
	}
	member, err := s.api.GetMemberByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get member %s: %w", id, err)
	}
	return member, creds, nil
}

// resolveMember fetches member detail for a MID or GUID.
func (s *MemberWorkflowService) resolveMember(ctx context.Context, id string) (*domain.Member, error) {
	if !IsMID(id) {
		member, err := s.api.GetMemberByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get member %s: %w", id, err)
		}
		return member, nil
	}

	search, err := s.api.FindMemberByMID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find member %s: %w", id, err)
	}
	if len(search) == 0 {
		return nil, fmt.Errorf("member with MID %s: %w", id, domain.ErrNotFound)
	}
	if search[0].MemberID.IsZero() {
		return nil, fmt.Errorf("search result for MID %s has no memberId: %w", id, domain.ErrInvalidResponse)
	}
	member, err := s.api.GetMemberByID(ctx, search[0].MemberID.String())
	if err != nil {
		return nil, fmt.Errorf("get member %s: %w", search[0].MemberID, err)
	}
	return member, nil
}

// matchCredential returns the first credential whose name contains
// required, ignoring case.
func matchCredential(creds []domain.Credential, required string) (domain.Credential, bool) {
	needle := strings.ToLower(required)
	for _, c := range creds {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			return c, true
		}
	}
	return domain.Credential{}, false
}

// ageInYears counts whole 365-day periods since dob. Leap days are ignored.
func ageInYears(dob, now time.Time) int {
	days := int(extract.Today(now).Sub(dob).Hours() / 24)
	return days / 365
}

// roleWindowWarnings flags active credentials that lapse on or before the
// last day of the role.
func roleWindowWarnings(active []domain.Credential, validUntil time.Time) []string {
	until := extract.Today(validUntil)
	var warnings []string
	for _, c := range active {
		expiry, err := c.Expiry()
		if err != nil {
			continue
		}
		if !expiry.After(until) {
			warnings = append(warnings, fmt.Sprintf("credential %s expires %s, before role ends %s",
				c.Name, expiry.Format(domain.CredentialDateLayout), until.Format(domain.CredentialDateLayout)))
		}
	}
	return warnings
}

// ValidateMembershipForRole applies the required, allowed and excluded
// rule sets to the member's active membership types.
func (s *MemberWorkflowService) ValidateMembershipForRole(
	ctx context.Context, memberIDOrMID string, rules domain.MembershipRules,
) *domain.MembershipValidation {
	result := &domain.MembershipValidation{
		MemberID:    memberIDOrMID,
		MemberTypes: []string{},
		Checks:      []domain.RuleCheck{},
		CheckedAt:   s.now(),
	}

	member, err := s.resolveMember(ctx, memberIDOrMID)
	if err != nil {
		logger.Warn("validate membership %s: %v", memberIDOrMID, err)
		result.OverallStatus = domain.ValidationError
		result.Error = err.Error()
		return result
	}

	types := extract.MembershipTypes(member)
	result.MemberTypes = types

	result.Checks = append(result.Checks, domain.RuleCheck{
		Rule:   domain.RuleActiveMembership,
		Passed: len(types) > 0,
		Detail: fmt.Sprintf("%d active membership type(s)", len(types)),
	})

	if len(rules.Required) > 0 {
		missing := difference(rules.Required, types)
		result.Checks = append(result.Checks, domain.RuleCheck{
			Rule:   domain.RuleRequiredTypes,
			Passed: len(missing) == 0,
			Detail: describe("missing required types", missing),
		})
	}
	if len(rules.Allowed) > 0 {
		outside := difference(types, rules.Allowed)
		result.Checks = append(result.Checks, domain.RuleCheck{
			Rule:   domain.RuleAllowedTypes,
			Passed: len(outside) == 0,
			Detail: describe("types outside the allowed set", outside),
		})
	}
	if len(rules.Excluded) > 0 {
		overlap := intersection(types, rules.Excluded)
		result.Checks = append(result.Checks, domain.RuleCheck{
			Rule:   domain.RuleExcludedTypes,
			Passed: len(overlap) == 0,
			Detail: describe("excluded types held", overlap),
		})
	}

	result.OverallStatus = domain.ValidationPass
	for _, check := range result.Checks {
		if !check.Passed {
			result.OverallStatus = domain.ValidationFail
			break
		}
	}
	return result
}

// difference returns the entries of a not found in b, ignoring case.
func difference(a, b []string) []string {
	var out []string
	for _, x := range a {
		if !containsFold(b, x) {
			out = append(out, x)
		}
	}
	return out
}

// intersection returns the entries of a also found in b, ignoring case.
func intersection(a, b []string) []string {
	var out []string
	for _, x := range a {
		if containsFold(b, x) {
			out = append(out, x)
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func describe(label string, items []string) string {
	if len(items) == 0 {
		return "ok"
	}
	return label + ": " + strings.Join(items, ", ")
}

// CredentialExpiryReport collects expiring credentials per member GUID.
// A failure for one member is recorded and the batch continues.
func (s *MemberWorkflowService) CredentialExpiryReport(
	ctx context.Context, memberIDs []string, daysAhead int,
) *domain.ExpiryReport {
	now := s.now()
	report := &domain.ExpiryReport{
		GeneratedAt:   now,
		DaysAhead:     daysAhead,
		TotalMembers:  len(memberIDs),
		Members:       []domain.MemberExpiry{},
		TypeBreakdown: map[string]int{},
		Errors:        []domain.MemberError{},
	}

	for _, id := range memberIDs {
		creds, err := s.api.GetMemberCredentials(ctx, id)
		if err != nil {
			logger.Warn("expiry report: %s: %v", id, err)
			report.Errors = append(report.Errors, domain.MemberError{MemberID: id, Error: err.Error()})
			continue
		}
		report.MembersChecked++

		expiring := extract.ExpiringCredentials(creds, daysAhead, now)
		if len(expiring) == 0 {
			continue
		}
		report.MembersWithExpiring++
		report.TotalExpiring += len(expiring)
		report.Members = append(report.Members, domain.MemberExpiry{MemberID: id, Credentials: expiring})
		for credType, group := range extract.GroupByType(expiring) {
			report.TypeBreakdown[credType] += len(group)
		}
	}

	logger.Info("expiry report: %d/%d members checked, %d expiring credentials",
		report.MembersChecked, report.TotalMembers, report.TotalExpiring)
	return report
}

// MembershipReport aggregates active membership types per member GUID.
func (s *MemberWorkflowService) MembershipReport(ctx context.Context, memberIDs []string) *domain.MembershipReport {
	report := &domain.MembershipReport{
		GeneratedAt:   s.now(),
		TotalMembers:  len(memberIDs),
		Members:       []domain.MemberMemberships{},
		TypeBreakdown: map[string]int{},
		Errors:        []domain.MemberError{},
	}

	for _, id := range memberIDs {
		member, err := s.api.GetMemberByID(ctx, id)
		if err != nil {
			logger.Warn("membership report: %s: %v", id, err)
			report.Errors = append(report.Errors, domain.MemberError{MemberID: id, Error: err.Error()})
			continue
		}
		report.MembersChecked++

		types := extract.MembershipTypes(member)
		if len(types) == 0 {
			report.WithoutMemberships++
		}
		for _, t := range types {
			report.TypeBreakdown[t]++
		}
		report.Members = append(report.Members, domain.MemberMemberships{MemberID: id, Types: types})
	}
	return report
}

// isNotFound matches not-found from either the domain or the connector.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
