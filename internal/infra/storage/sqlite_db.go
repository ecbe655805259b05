package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the schemas
// for the immutable event log and the per-day ledger.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			stall_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			order_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			business_day INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS day_ledger (
			stall_id TEXT NOT NULL,
			business_day INTEGER NOT NULL,
			income REAL NOT NULL DEFAULT 0.0,
			expense REAL NOT NULL DEFAULT 0.0,
			profit REAL NOT NULL DEFAULT 0.0,
			total_money REAL NOT NULL DEFAULT 0.0,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (stall_id, business_day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_stall_id ON events(stall_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_business_day ON events(business_day);`,
		`CREATE INDEX IF NOT EXISTS idx_events_event_type ON events(event_type);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
