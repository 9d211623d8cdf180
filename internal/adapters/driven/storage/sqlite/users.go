package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// userStore implements driven.LocalUserStore.
type userStore struct {
	store *Store
}

var _ driven.LocalUserStore = (*userStore)(nil)

const userColumns = `id, email, first_name, last_name, phone, date_of_birth, is_active, is_staff,
	justgo_member_id, justgo_member_doc_id, justgo_mid, justgo_synced_at, created_at, updated_at`

// UpdateOrCreateByEmail upserts a user keyed on email, case-insensitively.
func (s *userStore) UpdateOrCreateByEmail(
	ctx context.Context, email string, fields domain.LocalUserFields,
) (*domain.LocalUser, bool, error) {
	key := emailKey(email)
	if key == "" {
		return nil, false, domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	var id string
	created := false
	err = tx.QueryRowContext(ctx, `SELECT id FROM local_users WHERE email_key = ?`, key).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		created = true
		_, err = tx.ExecContext(ctx, `
			INSERT INTO local_users (id, email, email_key, first_name, last_name, phone, date_of_birth,
				is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, email, key, fields.FirstName, fields.LastName, fields.Phone, fields.DateOfBirth,
			boolToInt(fields.IsActive), now, now)
		if err != nil {
			return nil, false, fmt.Errorf("inserting user: %w", err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("looking up user: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE local_users SET first_name = ?, last_name = ?, phone = ?, date_of_birth = ?,
				is_active = ?, updated_at = ?
			WHERE id = ?
		`, fields.FirstName, fields.LastName, fields.Phone, fields.DateOfBirth,
			boolToInt(fields.IsActive), now, id)
		if err != nil {
			return nil, false, fmt.Errorf("updating user: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing user: %w", err)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// SaveLinkage stamps JustGo identifiers onto a user.
func (s *userStore) SaveLinkage(ctx context.Context, userID string, link domain.JustGoLink) error {
	var syncedAt sql.NullTime
	if !link.SyncedAt.IsZero() {
		syncedAt = sql.NullTime{Time: link.SyncedAt.UTC(), Valid: true}
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE local_users SET justgo_member_id = ?, justgo_member_doc_id = ?, justgo_mid = ?,
			justgo_synced_at = ?, updated_at = ?
		WHERE id = ?
	`, nullString(link.MemberID), nullString(link.MemberDocID), nullString(link.MID),
		syncedAt, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("saving linkage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving linkage: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get retrieves a user by ID.
func (s *userStore) Get(ctx context.Context, id string) (*domain.LocalUser, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM local_users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (s *userStore) GetByEmail(ctx context.Context, email string) (*domain.LocalUser, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM local_users WHERE email_key = ?`, emailKey(email))
	return scanUser(row)
}

// List returns all users ordered by email.
func (s *userStore) List(ctx context.Context) ([]domain.LocalUser, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+userColumns+` FROM local_users ORDER BY email_key`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.LocalUser
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*domain.LocalUser, error) {
	var u domain.LocalUser
	var isActive, isStaff int
	var memberID, memberDocID, mid sql.NullString
	var syncedAt sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.DateOfBirth,
		&isActive, &isStaff, &memberID, &memberDocID, &mid, &syncedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.IsActive = isActive != 0
	u.IsStaff = isStaff != 0
	u.JustGoMemberID = memberID.String
	u.JustGoMemberDocID = memberDocID.String
	u.JustGoMID = mid.String
	if syncedAt.Valid {
		u.JustGoSyncedAt = syncedAt.Time
	}
	return &u, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
