// Package storage persists the event stream and the day ledger.
// The engine never imports this package; it plugs in through the
// events.EventPersister interface from the composition root.
package storage

import (
	"context"
	"time"
)

// StallEvent is the storage shape of a simulation event. Payloads are kept
// as generic maps so the schema survives payload evolution.
type StallEvent struct {
	ID          string                 `json:"id"`
	StallID     string                 `json:"stall_id"`
	Timestamp   time.Time              `json:"timestamp"`
	EventType   string                 `json:"event_type"`
	CustomerID  string                 `json:"customer_id"`
	OrderID     string                 `json:"order_id"`
	Payload     map[string]interface{} `json:"payload"`
	BusinessDay int                    `json:"business_day"`
}

// DayLedger is one closed business day's financial summary.
type DayLedger struct {
	StallID     string    `json:"stall_id"`
	BusinessDay int       `json:"business_day"`
	Income      float64   `json:"income"`
	Expense     float64   `json:"expense"`
	Profit      float64   `json:"profit"`
	TotalMoney  float64   `json:"total_money"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventRepository defines how the immutable event stream is stored.
type EventRepository interface {
	Append(ctx context.Context, event StallEvent) error
	GetByStallID(ctx context.Context, stallID string) ([]StallEvent, error)
	GetByDay(ctx context.Context, stallID string, day int) ([]StallEvent, error)
	GetByEventType(ctx context.Context, stallID string, eventType string) ([]StallEvent, error)
}

// LedgerRepository defines how day summaries are stored.
type LedgerRepository interface {
	UpsertDay(ctx context.Context, ledger DayLedger) error
	GetDay(ctx context.Context, stallID string, day int) (*DayLedger, error)
	LastTotal(ctx context.Context, stallID string) (float64, bool, error)
}
