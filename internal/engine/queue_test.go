package engine

import (
	"testing"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
)

func TestQueueKeepsArrivalOrder(t *testing.T) {
	q := NewCustomerQueue()
	a := customer.New("C1", 120, 1.0, false)
	b := customer.New("C2", 120, 1.0, false)
	c := customer.New("C3", 120, 1.0, false)

	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	if q.Len() != 3 {
		t.Fatalf("expected 3 queued customers, got %d", q.Len())
	}
	if q.PositionOf(a) != 0 || q.PositionOf(b) != 1 || q.PositionOf(c) != 2 {
		t.Errorf("positions wrong: %d %d %d", q.PositionOf(a), q.PositionOf(b), q.PositionOf(c))
	}
}

func TestQueueRemoveFromMiddle(t *testing.T) {
	q := NewCustomerQueue()
	a := customer.New("C1", 120, 1.0, false)
	b := customer.New("C2", 120, 1.0, false)
	c := customer.New("C3", 120, 1.0, false)
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	q.Remove(b)

	if q.Len() != 2 {
		t.Fatalf("expected 2 after removal, got %d", q.Len())
	}
	// Survivors keep their relative order and compact forward.
	if q.PositionOf(a) != 0 {
		t.Errorf("expected C1 at position 0, got %d", q.PositionOf(a))
	}
	if q.PositionOf(c) != 1 {
		t.Errorf("expected C3 at position 1, got %d", q.PositionOf(c))
	}
	if q.Contains(b) {
		t.Error("removed customer still reported as member")
	}
}

func TestQueueRemoveAbsentIsNoOp(t *testing.T) {
	q := NewCustomerQueue()
	a := customer.New("C1", 120, 1.0, false)
	ghost := customer.New("GHOST", 120, 1.0, false)
	q.Enqueue(a)

	q.Remove(ghost)

	if q.Len() != 1 {
		t.Errorf("queue changed by removing an absent customer")
	}
	if q.PositionOf(ghost) != -1 {
		t.Errorf("absent customer should report position -1")
	}
}
