package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event StallEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.StallID, event.Timestamp, event.EventType,
		event.CustomerID, event.OrderID, string(payloadBytes), event.BusinessDay,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]StallEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StallEvent
	for rows.Next() {
		var e StallEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.StallID, &e.Timestamp, &e.EventType,
			&e.CustomerID, &e.OrderID, &payloadStr, &e.BusinessDay,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByStallID(ctx context.Context, stallID string) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, stallID)
}

func (r *SQLiteEventRepository) GetByDay(ctx context.Context, stallID string, day int) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = ? AND business_day = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, stallID, day)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, stallID string, eventType string) ([]StallEvent, error) {
	query := `SELECT id, stall_id, timestamp, event_type, customer_id, order_id, payload, business_day FROM events WHERE stall_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, stallID, eventType)
}

// ---------------------------------------------------------
// SQLiteLedgerRepository
// ---------------------------------------------------------

type SQLiteLedgerRepository struct {
	db *sql.DB
}

func NewSQLiteLedgerRepository(db *sql.DB) *SQLiteLedgerRepository {
	return &SQLiteLedgerRepository{db: db}
}

func (r *SQLiteLedgerRepository) UpsertDay(ctx context.Context, ledger DayLedger) error {
	query := `
		INSERT INTO day_ledger (stall_id, business_day, income, expense, profit, total_money, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(stall_id, business_day) DO UPDATE SET
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

func (r *SQLiteLedgerRepository) GetDay(ctx context.Context, stallID string, day int) (*DayLedger, error) {
	query := `SELECT stall_id, business_day, income, expense, profit, total_money, updated_at FROM day_ledger WHERE stall_id = ? AND business_day = ?`
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

// LastTotal returns the running total from the most recently closed day.
// The second return is false when no ledger rows exist yet.
func (r *SQLiteLedgerRepository) LastTotal(ctx context.Context, stallID string) (float64, bool, error) {
	query := `SELECT total_money FROM day_ledger WHERE stall_id = ? ORDER BY business_day DESC LIMIT 1`
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
