package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// SyncMemberToLocal pulls one member by MID into the local user store,
// keyed on email, then stamps the JustGo linkage onto the local record.
func (s *MemberWorkflowService) SyncMemberToLocal(
	ctx context.Context, mid string, users driven.LocalUserStore,
) *domain.SyncResult {
	result := &domain.SyncResult{MID: mid, Timestamp: s.now()}
	if users == nil {
		return syncFailed(result, fmt.Errorf("local user store: %w", domain.ErrInvalidInput))
	}

	journey, err := s.GetMemberJourney(ctx, mid)
	if err != nil {
		if isNotFound(err) {
			result.Status = domain.SyncNotFound
			result.Message = fmt.Sprintf("no JustGo member with MID %s", mid)
			return result
		}
		return syncFailed(result, err)
	}

	member := journey.Member
	if member == nil {
		return syncFailed(result, fmt.Errorf("member %s: %w", mid, domain.ErrInvalidResponse))
	}
	if member.EmailAddress == "" {
		return syncFailed(result, fmt.Errorf("member %s has no email address: %w", mid, domain.ErrInvalidInput))
	}

	user, created, err := users.UpdateOrCreateByEmail(ctx, member.EmailAddress, localFields(member))
	if err != nil {
		return syncFailed(result, fmt.Errorf("upsert local user: %w", err))
	}

	link := domain.JustGoLink{
		MemberID:    member.MemberID.String(),
		MemberDocID: member.MemberDocID.String(),
		MID:         mid,
		SyncedAt:    result.Timestamp,
	}
	if !member.MID.IsZero() {
		link.MID = member.MID.String()
	}
	if err := users.SaveLinkage(ctx, user.ID, link); err != nil {
		return syncFailed(result, fmt.Errorf("save linkage: %w", err))
	}

	result.Status = domain.SyncSuccess
	result.Action = domain.SyncUpdated
	if created {
		result.Action = domain.SyncCreated
	}
	result.MID = link.MID
	result.MemberID = link.MemberID
	result.MemberDocID = link.MemberDocID
	result.LocalUserID = user.ID
	logger.Info("sync: %s %s -> local user %s", result.Action, mid, user.ID)
	return result
}

// BulkSyncToLocal pulls each MID in turn. Results are in input order.
func (s *MemberWorkflowService) BulkSyncToLocal(
	ctx context.Context, mids []string, users driven.LocalUserStore,
) []*domain.SyncResult {
	results := make([]*domain.SyncResult, 0, len(mids))
	for _, mid := range mids {
		results = append(results, s.SyncMemberToLocal(ctx, mid, users))
	}
	return results
}

// SyncLocalToJustGo pushes a local user to JustGo. A linked user is
// updated in place; otherwise a member with the same email is linked, or
// created when createIfMissing is set. New linkage is written back to
// the user and, if users is set, to the store.
func (s *MemberWorkflowService) SyncLocalToJustGo(
	ctx context.Context, user *domain.LocalUser, createIfMissing bool, users driven.LocalUserStore,
) (*domain.SyncResult, error) {
	if !s.api.WritesAllowed(ctx) {
		return nil, fmt.Errorf("sync local user to JustGo: %w", domain.ErrReadOnlyMode)
	}
	if user == nil || user.Email == "" {
		return nil, fmt.Errorf("sync local user to JustGo: user with email required: %w", domain.ErrInvalidInput)
	}

	result := &domain.SyncResult{
		LocalUserID: user.ID,
		MID:         user.JustGoMID,
		Timestamp:   s.now(),
	}
	payload := memberPayload(user)

	var link domain.JustGoLink
	switch {
	case user.IsLinked():
		member, err := s.api.UpdateMemberProfile(ctx, user.JustGoMemberID, payload)
		if err != nil {
			return syncFailed(result, fmt.Errorf("update member %s: %w", user.JustGoMemberID, err)), nil
		}
		if member == nil {
			member = &domain.Member{}
		}
		result.Action = domain.SyncUpdated
		link = domain.JustGoLink{
			MemberID:    user.JustGoMemberID,
			MemberDocID: firstNonEmpty(member.MemberDocID.String(), user.JustGoMemberDocID),
			MID:         firstNonEmpty(member.MID.String(), user.JustGoMID),
		}

	default:
		matches, err := s.api.FindMemberByEmail(ctx, user.Email)
		if err != nil {
			return syncFailed(result, fmt.Errorf("find member by email: %w", err)), nil
		}
		if len(matches) > 0 {
			found := matches[0]
			result.Action = domain.SyncLinked
			link = domain.JustGoLink{
				MemberID:    found.MemberID.String(),
				MemberDocID: found.MemberDocID.String(),
				MID:         found.MID.String(),
			}
			break
		}
		if !createIfMissing {
			result.Status = domain.SyncNotFound
			result.Message = fmt.Sprintf("no JustGo member with email %s", user.Email)
			return result, nil
		}

		member, err := s.api.CreateMemberProfile(ctx, payload)
		if err != nil {
			return syncFailed(result, fmt.Errorf("create member: %w", err)), nil
		}
		if member == nil || member.MemberID.IsZero() {
			return syncFailed(result, fmt.Errorf("create member: no memberId returned: %w", domain.ErrInvalidResponse)), nil
		}
		result.Action = domain.SyncCreated
		link = domain.JustGoLink{
			MemberID:    member.MemberID.String(),
			MemberDocID: member.MemberDocID.String(),
			MID:         member.MID.String(),
		}
	}

	link.SyncedAt = result.Timestamp
	user.JustGoMemberID = link.MemberID
	user.JustGoMemberDocID = link.MemberDocID
	user.JustGoMID = link.MID
	user.JustGoSyncedAt = link.SyncedAt

	if users != nil && user.ID != "" {
		if err := users.SaveLinkage(ctx, user.ID, link); err != nil {
			return syncFailed(result, fmt.Errorf("%s remotely but could not save linkage: %w", result.Action, err)), nil
		}
	}

	result.Status = domain.SyncSuccess
	result.MemberID = link.MemberID
	result.MemberDocID = link.MemberDocID
	result.MID = link.MID
	logger.Info("sync: %s JustGo member %s from local user %s", result.Action, link.MemberID, user.ID)
	return result, nil
}

// localFields maps a JustGo member onto local user fields.
func localFields(m *domain.Member) domain.LocalUserFields {
	return domain.LocalUserFields{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Phone:       m.MobileNumber,
		DateOfBirth: normaliseDate(m.DateOfBirth),
		IsActive:    m.MemberStatus == domain.MemberStatusRegistered,
	}
}

// memberPayload maps a local user onto JustGo member fields.
func memberPayload(u *domain.LocalUser) map[string]any {
	return map[string]any{
		"firstName":    u.FirstName,
		"lastName":     u.LastName,
		"emailAddress": u.Email,
		"mobileNumber": u.Phone,
		"dateOfBirth":  u.DateOfBirth,
	}
}

func normaliseDate(s string) string {
	if t, err := domain.ParseDate(s); err == nil {
		return t.Format(domain.CredentialDateLayout)
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func syncFailed(result *domain.SyncResult, err error) *domain.SyncResult {
	logger.Warn("sync: %v", err)
	result.Status = domain.SyncError
	result.Error = err.Error()
	return result
}
