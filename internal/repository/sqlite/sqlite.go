// Package sqlite implements the engagement audit store on a local SQLite
// database.
//
// The CMS is the system of record for every entity; this database only keeps
// the operational trail the engagement flow needs — which engagements were
// recorded and, crucially, which publish steps failed. A failed publish is
// non-fatal for the request (the mutation already succeeded), so without
// this trail the only evidence would be a log line. With it, an operator can
// find entries whose delivery view is stale and republish them.
//
// WHY modernc.org/sqlite?
// Pure Go translation of SQLite — no CGo, no C toolchain, cross-compiles
// anywhere Go does.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB pool and implements repository.AuditRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the audit database and runs migrations.
//
// dbPath examples:
//   - "data/devdocs-audit.db" — persistent file
//   - ":memory:"              — throwaway, used by tests
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets the request handlers append audit rows without blocking
	// each other's reads.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. The server defers this on shutdown so
// the WAL is flushed before the process exits.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS engagement_events (
			id                  TEXT PRIMARY KEY,
			kind                TEXT NOT NULL CHECK (kind IN ('upvote', 'like')),
			user_uid            TEXT NOT NULL,
			application_uid     TEXT NOT NULL,
			app_publish_failed  INTEGER NOT NULL DEFAULT 0,
			user_publish_failed INTEGER NOT NULL DEFAULT 0,
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_engagement_events_created_at
			ON engagement_events(created_at);
		CREATE INDEX IF NOT EXISTS idx_engagement_events_application
			ON engagement_events(application_uid);
	`)
	if err != nil {
		return fmt.Errorf("creating engagement_events table: %w", err)
	}
	return nil
}
