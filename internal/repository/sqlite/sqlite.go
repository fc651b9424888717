// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code.
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/job-board/internal/repository"
)

// compile-time check that *DB implements the whole store
var _ repository.Store = (*DB)(nil)

// foldFunc is the SQL name of a Unicode-aware LOWER. SQLite's built-in
// LOWER only folds ASCII, so "ÉTUDES" would never match "études".
const foldFunc = "fold"

// The function is registered with the driver, so every connection opened
// afterwards has it.
func init() {
	if err := msqlite.RegisterDeterministicScalarFunction(foldFunc, 1, fold); err != nil {
		panic(fmt.Sprintf("sqlite: registering %s: %v", foldFunc, err))
	}
}

// fold lowercases its argument with strings.ToLower, the same folding
// likeArg applies to the search term. NULL stays NULL.
func fold(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/jobboard.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (tests)
//
// ONE CONNECTION:
// PRAGMAs are per-connection and every ":memory:" connection is a separate
// empty database, so the pool is capped at one connection. SQLite serializes
// writers anyway; for this workload the cap costs nothing.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. Applications reference
	// both users and jobs, and those references must hold.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the database is reachable; used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
//
// The UNIQUE (applicant_id, job_id) constraint is what actually prevents
// duplicate applications: two concurrent submissions can both pass the
// service's existence check, but only one INSERT can succeed.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL CHECK (role IN ('applicant', 'company')),
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			location    TEXT NOT NULL,
			created_by  TEXT NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_created_by ON jobs(created_by);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id           TEXT PRIMARY KEY,
			applicant_id TEXT NOT NULL REFERENCES users(id),
			job_id       TEXT NOT NULL REFERENCES jobs(id),
			resume_url   TEXT NOT NULL,
			cover_letter TEXT,
			status       TEXT NOT NULL DEFAULT 'applied'
				CHECK (status IN ('applied', 'reviewed', 'interviewed', 'rejected', 'hired')),
			applied_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (applicant_id, job_id)
		);
		CREATE INDEX IF NOT EXISTS idx_applications_job_id ON applications(job_id);
	`)
	if err != nil {
		return fmt.Errorf("creating applications table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate key.
// The extended code is checked first; the primary code plus message is a
// fallback for connections without extended result codes.
func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

// isForeignKeyViolation reports whether err is a dangling reference.
func isForeignKeyViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "FOREIGN KEY")
}

// likeArg builds the argument for "fold(col) LIKE ? ESCAPE '\'".
func likeArg(s string) string {
	return "%" + strings.ToLower(repository.EscapeLike(s)) + "%"
}
