package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

// OpenPostgres connects to Postgres, verifies the connection and ensures the
// schemas exist. Used instead of SQLite when a DSN is configured.
func OpenPostgres(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			stall_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			order_id TEXT NOT NULL,
			payload JSONB NOT NULL,
			business_day INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS day_ledger (
			stall_id TEXT NOT NULL,
			business_day INTEGER NOT NULL,
			income DOUBLE PRECISION NOT NULL DEFAULT 0.0,
			expense DOUBLE PRECISION NOT NULL DEFAULT 0.0,
			profit DOUBLE PRECISION NOT NULL DEFAULT 0.0,
			total_money DOUBLE PRECISION NOT NULL DEFAULT 0.0,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (stall_id, business_day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_stall_id ON events(stall_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_business_day ON events(business_day);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to create schemas: %w", err)
		}
	}

	return db, nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Append(ctx context.Context, event StallEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.StallID, event.Timestamp, event.EventType,
		event.CustomerID, event.OrderID, payloadJSON, event.BusinessDay,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]StallEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []StallEvent
	for rows.Next() {
		var e StallEvent
		var payloadJSON []byte

		err := rows.Scan(
			&e.ID, &e.StallID, &e.Timestamp, &e.EventType,
			&e.CustomerID, &e.OrderID, &payloadJSON, &e.BusinessDay,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PostgresEventRepository) GetByStallID(ctx context.Context, stallID string) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = $1 ORDER BY timestamp ASC`
	return r.queryEvents(ctx, query, stallID)
}

func (r *PostgresEventRepository) GetByDay(ctx context.Context, stallID string, day int) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = $1 AND business_day = $2 ORDER BY timestamp ASC`
	return r.queryEvents(ctx, query, stallID, day)
}

func (r *PostgresEventRepository) GetByEventType(ctx context.Context, stallID string, eventType string) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = $1 AND event_type = $2 ORDER BY timestamp ASC`
	return r.queryEvents(ctx, query, stallID, eventType)
}

// PostgresLedgerRepository implements LedgerRepository using PostgreSQL.
type PostgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) UpsertDay(ctx context.Context, ledger DayLedger) error {
	query := `
		INSERT INTO day_ledger (stall_id, business_day, income, expense, profit, total_money, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stall_id, business_day) DO UPDATE SET
			income=excluded.income,
			expense=excluded.expense,
			profit=excluded.profit,
			total_money=excluded.total_money,
			updated_at=excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		ledger.StallID, ledger.BusinessDay, ledger.Income, ledger.Expense,
		ledger.Profit, ledger.TotalMoney, time.Now(),
	)
	return err
}

func (r *PostgresLedgerRepository) GetDay(ctx context.Context, stallID string, day int) (*DayLedger, error) {
	query := `SELECT stall_id, business_day, income, expense, profit, total_money, updated_at FROM day_ledger WHERE stall_id = $1 AND business_day = $2`
	var l DayLedger
	err := r.db.QueryRowContext(ctx, query, stallID, day).Scan(
		&l.StallID, &l.BusinessDay, &l.Income, &l.Expense, &l.Profit, &l.TotalMoney, &l.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *PostgresLedgerRepository) LastTotal(ctx context.Context, stallID string) (float64, bool, error) {
	query := `SELECT total_money FROM day_ledger WHERE stall_id = $1 ORDER BY business_day DESC LIMIT 1`
	var total float64
	err := r.db.QueryRowContext(ctx, query, stallID).Scan(&total)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return total, true, nil
}
