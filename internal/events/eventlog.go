// Package events provides the append-only event stream of the simulation.
// Presentation layers replay or poll it to drive everything visual; the
// engine never calls into presentation directly.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a simulation event.
type EventType string

const (
	EventTypeSessionStarted    EventType = "SESSION_STARTED"
	EventTypeSessionEnded      EventType = "SESSION_ENDED"
	EventTypeCustomerSpawned   EventType = "CUSTOMER_SPAWNED"
	EventTypeCustomerSettled   EventType = "CUSTOMER_SETTLED"
	EventTypeCustomerAbandoned EventType = "CUSTOMER_ABANDONED"
	EventTypeOrderPlaced       EventType = "ORDER_PLACED"
	EventTypeOrderStarted      EventType = "ORDER_STARTED"
	EventTypeOrderCompleted    EventType = "ORDER_COMPLETED"
	EventTypeExpenseRecorded   EventType = "EXPENSE_RECORDED"
	EventTypeTimeTick          EventType = "TIME_TICK"
)

// CustomerSpawnedPayload carries the rolled attributes of a new arrival.
type CustomerSpawnedPayload struct {
	Patience      float64 `json:"patience"`
	SpendingPower float64 `json:"spending_power"`
	VeryPatient   bool    `json:"very_patient"`
	QueueLength   int     `json:"queue_length"`
}

// OrderPlacedPayload describes a customer's dish decision.
type OrderPlacedPayload struct {
	RecipeID   string `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`
}

// OrderCompletedPayload carries the revenue outcome of a fulfilled order.
type OrderCompletedPayload struct {
	RecipeID     string  `json:"recipe_id"`
	QualityScore float64 `json:"quality_score"`
	Income       float64 `json:"income"`
}

// CustomerAbandonedPayload records why and when a customer walked away.
type CustomerAbandonedPayload struct {
	WaitingTime    float64 `json:"waiting_time"`
	Patience       float64 `json:"patience"`
	LeftEarly      bool    `json:"left_early"`      // bailed before hard expiry
	CancelledOrder string  `json:"cancelled_order"` // order id released, if any
}

// SessionEndedPayload is the day's ledger summary.
type SessionEndedPayload struct {
	DailyIncome  float64 `json:"daily_income"`
	DailyExpense float64 `json:"daily_expense"`
	Profit       float64 `json:"profit"`
	TotalMoney   float64 `json:"total_money"`
}

// ExpenseRecordedPayload captures a cost booked against the day.
type ExpenseRecordedPayload struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// TimeTickPayload is the data attached to each clock tick event.
type TimeTickPayload struct {
	BusinessDay int     `json:"business_day"`
	TickNumber  int64   `json:"tick_number"`
	Elapsed     float64 `json:"elapsed"` // simulated seconds since the day opened
}

// StallEvent represents an immutable record of something that happened at the stall.
type StallEvent struct {
	ID          string      `json:"id"`
	Timestamp   time.Time   `json:"timestamp"`
	Type        EventType   `json:"type"`
	CustomerID  string      `json:"customer_id"` // who it happened to (optional)
	OrderID     string      `json:"order_id"`    // the order involved (optional)
	Payload     interface{} `json:"payload"`     // event-specific data
	BusinessDay int         `json:"business_day"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event StallEvent) error
}

// EventLog is the in-memory append-only log of simulation events,
// write-through to an optional persister.
type EventLog struct {
	mu        sync.RWMutex
	events    []StallEvent
	persister EventPersister
}

// NewEventLog creates a new event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]StallEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log. Events are immutable once appended.
// Missing IDs and timestamps are filled in here so callers can stay terse.
func (el *EventLog) Append(event StallEvent) {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		// Write through to persistent storage off the hot path.
		go func(e StallEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// Replay returns the full history of events for state reconstruction.
func (el *EventLog) Replay() []StallEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// GetByCustomer returns all events concerning a specific customer.
func (el *EventLog) GetByCustomer(customerID string) []StallEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []StallEvent
	for _, e := range el.events {
		if e.CustomerID == customerID {
			result = append(result, e)
		}
	}
	return result
}

// GetByDay returns all events that occurred on a specific business day.
func (el *EventLog) GetByDay(day int) []StallEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []StallEvent
	for _, e := range el.events {
		if e.BusinessDay == day {
			result = append(result, e)
		}
	}
	return result
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
