package main

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection used for telemetry.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (or creates) the SQLite database.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		peer_id TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_session_events_type ON session_events(event_type);
	CREATE INDEX IF NOT EXISTS idx_session_events_created ON session_events(created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}
