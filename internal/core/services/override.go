package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driving"
	"github.com/custodia-labs/justgo-bridge/internal/logger"
)

// Ensure AdminOverrideService implements the interface.
var _ driving.AdminOverride = (*AdminOverrideService)(nil)

// Audited override actions.
const (
	ActionCreateMemberProfile   = "create_member_profile"
	ActionUpdateMemberProfile   = "update_member_profile"
	ActionUpdateCandidateStatus = "update_candidate_status"
	ActionAddCandidateToEvent   = "add_candidate_to_event"
	ActionSyncLocalToJustGo     = "sync_local_to_justgo"
)

// AdminOverrideService runs write operations for staff users regardless
// of the configured read-only default. Each call runs under a child
// context in read-write mode, so the override ends with the call.
type AdminOverrideService struct {
	api   driven.MemberAPI
	sync  driving.MemberSync
	users driven.LocalUserStore
	audit driven.AuditLogger
	now   func() time.Time
}

// NewAdminOverrideService creates a new override service.
// The audit logger is optional; without one, overrides are logged only.
func NewAdminOverrideService(
	api driven.MemberAPI,
	sync driving.MemberSync,
	users driven.LocalUserStore,
	audit driven.AuditLogger,
) *AdminOverrideService {
	return &AdminOverrideService{
		api:   api,
		sync:  sync,
		users: users,
		audit: audit,
		now:   time.Now,
	}
}

// override describes one audited write.
type override[T any] struct {
	action string
	target string
	// before captures prior state. Optional; failures are ignored.
	before func(ctx context.Context) (any, error)
	run    func(ctx context.Context) (T, error)
	// failure reports a failure carried in a result returned without an
	// error. Optional.
	failure func(result T) error
}

func runOverride[T any](
	ctx context.Context, s *AdminOverrideService, actor domain.Actor, justification string, op override[T],
) (*domain.OverrideResult[T], error) {
	if !actor.IsStaff {
		logger.Warn("admin override %s refused for non-staff user %q", op.action, actor.Username)
		return nil, fmt.Errorf("%s: %w", op.action, domain.ErrNotStaff)
	}
	if strings.TrimSpace(justification) == "" {
		return nil, fmt.Errorf("%s: justification required: %w", op.action, domain.ErrInvalidInput)
	}

	var before any
	if op.before != nil {
		state, err := op.before(ctx)
		if err != nil {
			logger.Debug("admin override %s: could not capture prior state: %v", op.action, err)
		} else {
			before = state
		}
	}

	logger.Info("admin override %s on %s by %s: %s", op.action, op.target, actor.Username, justification)

	result, err := op.run(domain.WithWriteMode(ctx, domain.WriteModeReadWrite))

	failed := err
	if failed == nil && op.failure != nil {
		failed = op.failure(result)
	}

	timestamp := s.now()
	entry := domain.AuditEntry{
		Actor:         actor,
		Action:        op.action,
		Target:        op.target,
		Justification: justification,
		Before:        marshalState(before),
		Success:       failed == nil,
		Timestamp:     timestamp,
	}
	if failed != nil {
		entry.Error = failed.Error()
	} else {
		entry.After = marshalState(result)
	}
	s.record(ctx, entry)

	if err != nil {
		return nil, err
	}
	return &domain.OverrideResult[T]{
		Result: result,
		Override: domain.OverrideMetadata{
			Actor:         actor,
			Action:        op.action,
			Justification: justification,
			Timestamp:     timestamp,
			Before:        before,
		},
	}, nil
}

// record writes the audit entry. Audit failures are logged and never
// fail the override.
func (s *AdminOverrideService) record(ctx context.Context, entry domain.AuditEntry) {
	if s.audit == nil {
		logger.Warn("audit log unavailable: %s on %s by %s (success=%t)",
			entry.Action, entry.Target, entry.Actor.Username, entry.Success)
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		logger.Warn("audit log failed for %s on %s by %s: %v",
			entry.Action, entry.Target, entry.Actor.Username, err)
	}
}

func marshalState(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return data
}

// syncFailure turns a sync result with error status into an error, so a
// failed push is never audited as a success.
func syncFailure(result *domain.SyncResult) error {
	if result == nil || result.Status != domain.SyncError {
		return nil
	}
	if result.Error == "" {
		return errors.New("sync failed")
	}
	return errors.New(result.Error)
}

// CreateMemberProfile creates a JustGo member as an audited override.
func (s *AdminOverrideService) CreateMemberProfile(
	ctx context.Context, actor domain.Actor, justification string, data map[string]any,
) (*domain.OverrideResult[*domain.Member], error) {
	target, _ := data["emailAddress"].(string)
	if target == "" {
		target, _ = data["email"].(string)
	}
	return runOverride(ctx, s, actor, justification, override[*domain.Member]{
		action: ActionCreateMemberProfile,
		target: target,
		run: func(ctx context.Context) (*domain.Member, error) {
			return s.api.CreateMemberProfile(ctx, data)
		},
	})
}

// UpdateMemberProfile updates a JustGo member as an audited override.
func (s *AdminOverrideService) UpdateMemberProfile(
	ctx context.Context, actor domain.Actor, justification, memberID string, data map[string]any,
) (*domain.OverrideResult[*domain.Member], error) {
	return runOverride(ctx, s, actor, justification, override[*domain.Member]{
		action: ActionUpdateMemberProfile,
		target: memberID,
		before: func(ctx context.Context) (any, error) {
			return s.api.GetMemberByID(ctx, memberID)
		},
		run: func(ctx context.Context) (*domain.Member, error) {
			return s.api.UpdateMemberProfile(ctx, memberID, data)
		},
	})
}

// UpdateCandidateStatus changes a booking status as an audited override.
func (s *AdminOverrideService) UpdateCandidateStatus(
	ctx context.Context, actor domain.Actor, justification, bookingID, status string, issueAwards bool,
) (*domain.OverrideResult[*domain.EventCandidate], error) {
	return runOverride(ctx, s, actor, justification, override[*domain.EventCandidate]{
		action: ActionUpdateCandidateStatus,
		target: bookingID,
		run: func(ctx context.Context) (*domain.EventCandidate, error) {
			return s.api.UpdateCandidateStatus(ctx, bookingID, status, issueAwards)
		},
	})
}

// AddCandidateToEvent books a candidate onto an event as an audited override.
func (s *AdminOverrideService) AddCandidateToEvent(
	ctx context.Context, actor domain.Actor, justification, eventID, ticketID, candidateID string,
) (*domain.OverrideResult[*domain.EventCandidate], error) {
	return runOverride(ctx, s, actor, justification, override[*domain.EventCandidate]{
		action: ActionAddCandidateToEvent,
		target: eventID + "/" + candidateID,
		before: func(ctx context.Context) (any, error) {
			return s.api.FindEventCandidates(ctx, eventID)
		},
		run: func(ctx context.Context) (*domain.EventCandidate, error) {
			return s.api.AddCandidateToEvent(ctx, eventID, ticketID, candidateID)
		},
	})
}

// SyncLocalToJustGo pushes a local user to JustGo as an audited override.
func (s *AdminOverrideService) SyncLocalToJustGo(
	ctx context.Context, actor domain.Actor, justification string, user *domain.LocalUser, createIfMissing bool,
) (*domain.OverrideResult[*domain.SyncResult], error) {
	if user == nil {
		return nil, fmt.Errorf("%s: %w", ActionSyncLocalToJustGo, domain.ErrInvalidInput)
	}
	op := override[*domain.SyncResult]{
		action: ActionSyncLocalToJustGo,
		target: user.Email,
		run: func(ctx context.Context) (*domain.SyncResult, error) {
			return s.sync.SyncLocalToJustGo(ctx, user, createIfMissing, s.users)
		},
		failure: syncFailure,
	}
	if user.IsLinked() {
		memberID := user.JustGoMemberID
		op.before = func(ctx context.Context) (any, error) {
			return s.api.GetMemberByID(ctx, memberID)
		}
	}
	return runOverride(ctx, s, actor, justification, op)
}
