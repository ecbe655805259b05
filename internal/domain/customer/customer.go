// Package customer defines the core domain entity for stall customers.
// This package is PURE and must NOT import any infrastructure packages (network, events, platform).
package customer

// State is the lifecycle phase of a customer.
type State string

const (
	// StateQueued means the customer joined the queue but has not yet
	// physically reached the serving position.
	StateQueued State = "Queued"
	// StateSettled means presentation confirmed arrival at the serving
	// position. Waiting time accrues only from this point.
	StateSettled State = "Settled"
	// StateThinking means the customer is picking a dish.
	StateThinking State = "Thinking"
	// StateWaiting means the customer has an open order.
	StateWaiting State = "Waiting"
	// StateServed is terminal: the order was fulfilled and paid.
	StateServed State = "Served"
	// StateAbandoned is terminal: patience ran out or the customer bailed early.
	StateAbandoned State = "Abandoned"
)

// Customer represents one visitor of the stall for a single business day.
type Customer struct {
	ID            string  `json:"id"`
	Patience      float64 `json:"patience"`        // seconds of tolerance once settled
	SpendingPower float64 `json:"spending_power"`  // tip multiplier, nominal 1.0
	WaitingTime   float64 `json:"waiting_time"`    // seconds accrued since settling
	IsVeryPatient bool    `json:"is_very_patient"` // doubled effective patience, never bails early
	State         State   `json:"state"`

	// OrderID links the customer to its single open order, empty otherwise.
	OrderID string `json:"order_id"`
}

// New creates a freshly spawned customer waiting to settle into the queue.
func New(id string, patience, spendingPower float64, veryPatient bool) *Customer {
	return &Customer{
		ID:            id,
		Patience:      patience,
		SpendingPower: spendingPower,
		IsVeryPatient: veryPatient,
		State:         StateQueued,
	}
}

// HasSettled reports whether the customer reached the serving position.
func (c *Customer) HasSettled() bool {
	return c.State != StateQueued && !c.IsTerminal()
}

// IsTerminal reports whether the customer left the simulation.
func (c *Customer) IsTerminal() bool {
	return c.State == StateServed || c.State == StateAbandoned
}

// HasOpenOrder reports whether the customer currently owns a pending or active order.
func (c *Customer) HasOpenOrder() bool {
	return c.OrderID != ""
}

// Settle transitions Queued -> Settled. Settling twice or settling a
// terminal customer is a no-op so the external movement signal stays idempotent.
func (c *Customer) Settle() bool {
	if c.State != StateQueued {
		return false
	}
	c.State = StateSettled
	return true
}
