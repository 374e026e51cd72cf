// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is an embedded database: it lives inside the binary as a single
// file, which suits a single-server app with one small table. We use
// modernc.org/sqlite, the pure-Go translation of SQLite, so no C compiler
// is needed and cross-compilation stays painless. The blank import below
// registers it with database/sql under the driver name "sqlite".
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
// The server owns the lifecycle: New opens it, Close releases it on
// shutdown (flushes the WAL and drops the file lock).
type DB struct {
	conn *sql.DB
}

// New opens a SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/stylist.db" — file-based, persistent
//   - ":memory:"        — in-memory, great for tests, lost on close
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path or permissions problem
	// surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in flight, which
	// matters once the HTTP server handles overlapping requests.
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

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. One table: users, keyed by username.
//
// profile and saved_items are TEXT blobs holding JSON. Storage enforces
// no shape on them; decoding (and the degrade-to-default policy for
// malformed blobs) happens in user.go.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			profile       TEXT,
			saved_items   TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}
	return nil
}
