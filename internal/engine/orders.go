package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/menu"
)

// OrderState is the lifecycle phase of an order.
type OrderState string

const (
	OrderPending   OrderState = "Pending"   // backlogged, kitchen at capacity
	OrderActive    OrderState = "Active"    // being worked
	OrderCompleted OrderState = "Completed" // fulfilled and paid out
	OrderCancelled OrderState = "Cancelled" // owner abandoned or the day ended
)

// Order links one customer to one dish being prepared.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Recipe     menu.Recipe `json:"recipe"`
	CreatedAt  time.Time   `json:"created_at"`
	State      OrderState  `json:"state"`
}

// OrderAdmissionController bounds how many orders the kitchen works at once.
// New orders land in a FIFO backlog and are promoted into the active set as
// capacity frees, strictly oldest-first.
type OrderAdmissionController struct {
	pending   []*Order // FIFO by creation
	active    []*Order // insertion order, len <= maxActive
	maxActive int
}

// NewOrderAdmissionController creates a controller with the given active capacity.
func NewOrderAdmissionController(maxActive int) *OrderAdmissionController {
	return &OrderAdmissionController{
		pending:   make([]*Order, 0),
		active:    make([]*Order, 0, maxActive),
		maxActive: maxActive,
	}
}

// Place backlogs a new order for the given customer and recipe.
// The caller is expected to follow up with PromoteIfCapacity.
func (oc *OrderAdmissionController) Place(customerID string, recipe menu.Recipe, now time.Time) *Order {
	o := &Order{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Recipe:     recipe,
		CreatedAt:  now,
		State:      OrderPending,
	}
	oc.pending = append(oc.pending, o)
	return o
}

// PromoteIfCapacity moves the oldest backlogged order into the active set if
// there is room, and returns it. Returns nil when nothing was promoted.
func (oc *OrderAdmissionController) PromoteIfCapacity() *Order {
	if len(oc.active) >= oc.maxActive || len(oc.pending) == 0 {
		return nil
	}
	o := oc.pending[0]
	oc.pending = oc.pending[1:]
	o.State = OrderActive
	oc.active = append(oc.active, o)
	return o
}

// Complete resolves the active order for the given customer. When no active
// order matches, it falls back to the oldest entry in the active set: the
// kitchen hands out whatever finished first rather than refusing. An empty
// active set yields (nil, false), a graceful no-op.
func (oc *OrderAdmissionController) Complete(customerID string) (*Order, bool) {
	if len(oc.active) == 0 {
		return nil, false
	}
	idx := 0
	for i, o := range oc.active {
		if o.CustomerID == customerID {
			idx = i
			break
		}
	}
	o := oc.active[idx]
	oc.active = append(oc.active[:idx], oc.active[idx+1:]...)
	o.State = OrderCompleted
	return o, true
}

// CompleteOldest resolves the oldest active order regardless of owner.
func (oc *OrderAdmissionController) CompleteOldest() (*Order, bool) {
	if len(oc.active) == 0 {
		return nil, false
	}
	o := oc.active[0]
	oc.active = oc.active[1:]
	o.State = OrderCompleted
	return o, true
}

// CancelFor releases any open (pending or active) order owned by the
// customer, freeing admission capacity. Returns the cancelled order, if any.
func (oc *OrderAdmissionController) CancelFor(customerID string) (*Order, bool) {
	for i, o := range oc.pending {
		if o.CustomerID == customerID {
			oc.pending = append(oc.pending[:i], oc.pending[i+1:]...)
			o.State = OrderCancelled
			return o, true
		}
	}
	for i, o := range oc.active {
		if o.CustomerID == customerID {
			oc.active = append(oc.active[:i], oc.active[i+1:]...)
			o.State = OrderCancelled
			return o, true
		}
	}
	return nil, false
}

// OpenOrderFor returns the customer's pending or active order, if any.
func (oc *OrderAdmissionController) OpenOrderFor(customerID string) (*Order, bool) {
	for _, o := range oc.pending {
		if o.CustomerID == customerID {
			return o, true
		}
	}
	for _, o := range oc.active {
		if o.CustomerID == customerID {
			return o, true
		}
	}
	return nil, false
}

// ActiveCount returns the number of orders being worked.
func (oc *OrderAdmissionController) ActiveCount() int {
	return len(oc.active)
}

// PendingCount returns the backlog length.
func (oc *OrderAdmissionController) PendingCount() int {
	return len(oc.pending)
}

// Clear cancels everything. Used when the day ends.
func (oc *OrderAdmissionController) Clear() {
	for _, o := range oc.pending {
		o.State = OrderCancelled
	}
	for _, o := range oc.active {
		o.State = OrderCancelled
	}
	oc.pending = oc.pending[:0]
	oc.active = oc.active[:0]
}
