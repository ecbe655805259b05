package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *SQLiteEventRepository {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "stall.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteEventRepository(db)
}

func sampleEvent(id, eventType string, day int) StallEvent {
	return StallEvent{
		ID:          id,
		StallID:     "STALL_1",
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		CustomerID:  "C1",
		OrderID:     "O1",
		Payload:     map[string]interface{}{"income": 20.0},
		BusinessDay: day,
	}
}

func TestSQLiteEventRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sampleEvent("E1", "ORDER_COMPLETED", 1)))
	require.NoError(t, repo.Append(ctx, sampleEvent("E2", "CUSTOMER_ABANDONED", 2)))

	all, err := repo.GetByStallID(ctx, "STALL_1")
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := all[0]
	assert.Equal(t, "E1", got.ID)
	assert.Equal(t, "ORDER_COMPLETED", got.EventType)
	assert.Equal(t, "C1", got.CustomerID)
	assert.Equal(t, "O1", got.OrderID)
	assert.Equal(t, 20.0, got.Payload["income"], "payload must survive the round trip")

	day2, err := repo.GetByDay(ctx, "STALL_1", 2)
	require.NoError(t, err)
	require.Len(t, day2, 1)
	assert.Equal(t, "E2", day2[0].ID)

	byType, err := repo.GetByEventType(ctx, "STALL_1", "ORDER_COMPLETED")
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "E1", byType[0].ID)

	other, err := repo.GetByStallID(ctx, "STALL_2")
	require.NoError(t, err)
	assert.Empty(t, other, "a foreign stall must see nothing")
}

func TestSQLiteLedgerUpsert(t *testing.T) {
	db, err := InitSQLite(filepath.Join(t.TempDir(), "stall.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := NewSQLiteLedgerRepository(db)
	ctx := context.Background()

	_, found, err := repo.LastTotal(ctx, "STALL_1")
	require.NoError(t, err)
	assert.False(t, found, "empty ledger must report no total")

	missing, err := repo.GetDay(ctx, "STALL_1", 1)
	require.NoError(t, err)
	assert.Nil(t, missing, "missing day must be nil without error")

	day1 := DayLedger{StallID: "STALL_1", BusinessDay: 1, Income: 100, Expense: 30, Profit: 70, TotalMoney: 70, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.UpsertDay(ctx, day1))

	// The periodic backup rewrites the same day; it must replace, never duplicate.
	day1.Income, day1.Profit, day1.TotalMoney = 120, 90, 90
	require.NoError(t, repo.UpsertDay(ctx, day1))

	day2 := DayLedger{StallID: "STALL_1", BusinessDay: 2, Income: 50, Profit: 50, TotalMoney: 140, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.UpsertDay(ctx, day2))

	got, err := repo.GetDay(ctx, "STALL_1", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 120.0, got.Income)
	assert.Equal(t, 90.0, got.Profit)

	total, found, err := repo.LastTotal(ctx, "STALL_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 140.0, total, "last total must come from the newest day")
}

func TestReconstructorRebuildsDay(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	events := []StallEvent{
		{ID: "E1", StallID: "STALL_1", EventType: "ORDER_COMPLETED", BusinessDay: 1,
			Payload: map[string]interface{}{"income": 20.0}},
		{ID: "E2", StallID: "STALL_1", EventType: "ORDER_COMPLETED", BusinessDay: 1,
			Payload: map[string]interface{}{"income": 17.5}},
		{ID: "E3", StallID: "STALL_1", EventType: "EXPENSE_RECORDED", BusinessDay: 1,
			Payload: map[string]interface{}{"amount": 30.0}},
		{ID: "E4", StallID: "STALL_1", EventType: "SESSION_ENDED", BusinessDay: 1,
			Payload: map[string]interface{}{"total_money": 7.5}},
	}
	for _, e := range events {
		e.Timestamp = time.Now().UTC()
		require.NoError(t, repo.Append(ctx, e))
	}

	ledger, err := NewReconstructor(repo).RebuildDay(ctx, "STALL_1", 1)
	require.NoError(t, err)
	assert.Equal(t, 37.5, ledger.Income)
	assert.Equal(t, 30.0, ledger.Expense)
	assert.Equal(t, 7.5, ledger.Profit)
	assert.Equal(t, 7.5, ledger.TotalMoney)
}
