package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/justgo-bridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "justgo.db"

// Store is a SQLite database holding local users and the audit log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database in dataDir.
// If dataDir is empty, defaults to ~/.justgo/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".justgo", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UserStore returns a LocalUserStore backed by this store.
func (s *Store) UserStore() driven.LocalUserStore {
	return &userStore{store: s}
}

// AuditLogger returns an AuditLogger backed by this store.
func (s *Store) AuditLogger() driven.AuditLogger {
	return &auditLogger{store: s}
}

// migration is one numbered NNN_name.up.sql file.
type migration struct {
	version int
	name    string
}

// migrate applies every embedded migration newer than the highest
// recorded version, in order, one transaction per file. Each file
// inserts its own row into schema_migrations.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var applied int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	pending, err := pendingMigrations(fsys, applied)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if err := s.apply(fsys, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) apply(fsys fs.FS, m migration) error {
	script, err := fs.ReadFile(fsys, m.name)
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", m.name, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting migration %s: %w", m.name, err)
	}
	if _, err := tx.Exec(string(script)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("executing migration %s: %w", m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", m.name, err)
	}
	return nil
}

// pendingMigrations lists *.up.sql files numbered above applied, in
// version order. Files without a numeric prefix are ignored.
func pendingMigrations(fsys fs.FS, applied int) ([]migration, error) {
	names, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}

	var pending []migration
	for _, name := range names {
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= applied {
			continue
		}
		pending = append(pending, migration{version: version, name: name})
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })
	return pending, nil
}

// nullString converts empty strings to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SetStaff grants or revokes staff rights for the user with the given email.
// Returns domain.ErrNotFound if no such user exists.
func (s *Store) SetStaff(ctx context.Context, email string, staff bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE local_users SET is_staff = ?, updated_at = ? WHERE email_key = ?`,
		boolToInt(staff), time.Now().UTC(), emailKey(email))
	if err != nil {
		return fmt.Errorf("setting staff flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting staff flag: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
