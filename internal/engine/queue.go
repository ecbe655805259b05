package engine

import "github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"

// CustomerQueue is the stall's waiting line. FIFO by arrival, but customers
// are served and abandon out of strict arrival order, so removal works by
// identity anywhere in the line. It tracks membership and position only;
// spatial layout belongs to presentation.
//
// Membership and position lookups are O(1) through the index map; removal
// compacts the line and repairs the indices behind the gap.
type CustomerQueue struct {
	line  []*customer.Customer
	index map[string]int // customer ID -> position in line
}

// NewCustomerQueue creates an empty waiting line.
func NewCustomerQueue() *CustomerQueue {
	return &CustomerQueue{
		line:  make([]*customer.Customer, 0),
		index: make(map[string]int),
	}
}

// Enqueue appends a customer to the back of the line.
func (q *CustomerQueue) Enqueue(c *customer.Customer) {
	q.index[c.ID] = len(q.line)
	q.line = append(q.line, c)
}

// Remove takes a customer out of the line wherever it stands, preserving
// the order of everyone else. Removing an absent customer is a no-op.
func (q *CustomerQueue) Remove(c *customer.Customer) {
	pos, ok := q.index[c.ID]
	if !ok {
		return
	}
	q.line = append(q.line[:pos], q.line[pos+1:]...)
	delete(q.index, c.ID)
	for i := pos; i < len(q.line); i++ {
		q.index[q.line[i].ID] = i
	}
}

// PositionOf returns the 0-based position of a customer in the line, or -1
// if the customer is not queued. Presentation uses this for layout.
func (q *CustomerQueue) PositionOf(c *customer.Customer) int {
	pos, ok := q.index[c.ID]
	if !ok {
		return -1
	}
	return pos
}

// Contains reports whether the customer is in the line.
func (q *CustomerQueue) Contains(c *customer.Customer) bool {
	_, ok := q.index[c.ID]
	return ok
}

// Len returns the current line length.
func (q *CustomerQueue) Len() int {
	return len(q.line)
}

// Members returns a snapshot of the line in order.
func (q *CustomerQueue) Members() []*customer.Customer {
	out := make([]*customer.Customer, len(q.line))
	copy(out, q.line)
	return out
}

// Clear empties the line.
func (q *CustomerQueue) Clear() {
	q.line = q.line[:0]
	q.index = make(map[string]int)
}
