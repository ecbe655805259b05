package storage

import (
	"context"
	"fmt"
)

// Reconstructor folds the persisted event stream back into a day ledger.
// It is the audit path: the row written at close time should match the sum
// of the day's OrderCompleted and ExpenseRecorded events exactly.
type Reconstructor struct {
	events EventRepository
}

// NewReconstructor creates a reconstructor over the given event repository.
func NewReconstructor(events EventRepository) *Reconstructor {
	return &Reconstructor{events: events}
}

// RebuildDay replays one business day's events into a ledger summary.
// TotalMoney is left zero: the running total is a cross-day fold and only
// the SessionEnded event of the day carries it.
func (rc *Reconstructor) RebuildDay(ctx context.Context, stallID string, day int) (DayLedger, error) {
	evts, err := rc.events.GetByDay(ctx, stallID, day)
	if err != nil {
		return DayLedger{}, fmt.Errorf("failed to load events for day %d: %w", day, err)
	}

	ledger := DayLedger{StallID: stallID, BusinessDay: day}
	for _, e := range evts {
		switch e.EventType {
		case "ORDER_COMPLETED":
			ledger.Income += payloadFloat(e.Payload, "income")
		case "EXPENSE_RECORDED":
			ledger.Expense += payloadFloat(e.Payload, "amount")
		case "SESSION_ENDED":
			ledger.TotalMoney = payloadFloat(e.Payload, "total_money")
		}
	}
	ledger.Profit = ledger.Income - ledger.Expense
	return ledger, nil
}

// payloadFloat digs a numeric field out of a decoded JSON payload map.
func payloadFloat(payload map[string]interface{}, key string) float64 {
	if payload == nil {
		return 0
	}
	v, ok := payload[key].(float64)
	if !ok {
		return 0
	}
	return v
}
