package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// auditLogger implements driven.AuditLogger.
type auditLogger struct {
	store *Store
}

var _ driven.AuditLogger = (*auditLogger)(nil)

// Record persists one audit entry, assigning an ID if it has none.
func (a *auditLogger) Record(ctx context.Context, entry domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := a.store.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_id, actor_username, actor_is_staff, action, target,
			justification, before_state, after_state, success, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Actor.ID, entry.Actor.Username, boolToInt(entry.Actor.IsStaff),
		entry.Action, entry.Target, entry.Justification,
		nullString(string(entry.Before)), nullString(string(entry.After)),
		boolToInt(entry.Success), entry.Error, entry.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("recording audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (a *auditLogger) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := a.store.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_username, actor_is_staff, action, target, justification,
			before_state, after_state, success, error, created_at
		FROM audit_log ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var isStaff, success int
		var before, after sql.NullString
		if err := rows.Scan(&e.ID, &e.Actor.ID, &e.Actor.Username, &isStaff, &e.Action, &e.Target,
			&e.Justification, &before, &after, &success, &e.Error, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Actor.IsStaff = isStaff != 0
		e.Success = success != 0
		if before.Valid {
			e.Before = json.RawMessage(before.String)
		}
		if after.Valid {
			e.After = json.RawMessage(after.String)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
