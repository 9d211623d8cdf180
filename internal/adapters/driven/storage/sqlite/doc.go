// Package sqlite persists local users and the admin audit log in SQLite.
//
// It uses modernc.org/sqlite, a pure Go driver, so the binary builds
// without CGO. A single database connection serves both stores:
//
//   - LocalUserStore: users keyed on a lowercased email, with JustGo linkage
//   - AuditLogger: one row per admin override
//
// # Schema
//
// The schema is managed through numbered NNN_name.up.sql files embedded
// from the migrations/ directory. Each file records its own version in
// schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.justgo/data/justgo.db
package sqlite
