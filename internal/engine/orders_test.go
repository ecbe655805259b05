package engine

import (
	"testing"
	"time"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/menu"
)

func testRecipe() menu.Recipe {
	return menu.Recipe{ID: "mapo-tofu", Name: "Mapo Tofu", BasePrice: 15.0, DifficultyLevel: 2}
}

func TestOrderPromotionIsOldestFirst(t *testing.T) {
	oc := NewOrderAdmissionController(1)
	now := time.Now()

	o1 := oc.Place("C1", testRecipe(), now)
	o2 := oc.Place("C2", testRecipe(), now.Add(time.Second))

	promoted := oc.PromoteIfCapacity()
	if promoted == nil || promoted.ID != o1.ID {
		t.Fatalf("expected the oldest order to start first")
	}
	if oc.PromoteIfCapacity() != nil {
		t.Fatal("kitchen at capacity, nothing should have been promoted")
	}
	if o2.State != OrderPending {
		t.Errorf("second order should still be backlogged, got %s", o2.State)
	}

	if _, ok := oc.Complete("C1"); !ok {
		t.Fatal("completing the active order failed")
	}
	promoted = oc.PromoteIfCapacity()
	if promoted == nil || promoted.ID != o2.ID {
		t.Fatal("freed capacity should promote the backlogged order")
	}
	if o2.State != OrderActive {
		t.Errorf("promoted order should be active, got %s", o2.State)
	}
}

func TestCompleteFallsBackToOldestActive(t *testing.T) {
	oc := NewOrderAdmissionController(3)
	now := time.Now()
	o1 := oc.Place("C1", testRecipe(), now)
	oc.Place("C2", testRecipe(), now.Add(time.Second))
	oc.PromoteIfCapacity()
	oc.PromoteIfCapacity()

	// No active order belongs to C9; the kitchen hands out the oldest one.
	done, ok := oc.Complete("C9")
	if !ok {
		t.Fatal("expected a completion via fallback")
	}
	if done.ID != o1.ID {
		t.Errorf("fallback should pick the oldest active order, got %s", done.CustomerID)
	}
}

func TestCompleteOnEmptyKitchenIsNoOp(t *testing.T) {
	oc := NewOrderAdmissionController(3)
	if _, ok := oc.Complete("C1"); ok {
		t.Error("empty active set must not complete anything")
	}
	if _, ok := oc.CompleteOldest(); ok {
		t.Error("empty active set must not complete anything")
	}
}

func TestCancelForReleasesCapacity(t *testing.T) {
	oc := NewOrderAdmissionController(1)
	now := time.Now()
	oc.Place("C1", testRecipe(), now)
	o2 := oc.Place("C2", testRecipe(), now.Add(time.Second))
	oc.PromoteIfCapacity()

	cancelled, ok := oc.CancelFor("C1")
	if !ok || cancelled.State != OrderCancelled {
		t.Fatal("active order should be cancelled for its owner")
	}
	if oc.ActiveCount() != 0 {
		t.Fatalf("cancellation must free the slot, active=%d", oc.ActiveCount())
	}

	promoted := oc.PromoteIfCapacity()
	if promoted == nil || promoted.ID != o2.ID {
		t.Error("backlog should advance into the freed slot")
	}

	if _, ok := oc.CancelFor("C1"); ok {
		t.Error("second cancel for the same customer should find nothing")
	}
}

func TestClearCancelsEverything(t *testing.T) {
	oc := NewOrderAdmissionController(2)
	now := time.Now()
	o1 := oc.Place("C1", testRecipe(), now)
	o2 := oc.Place("C2", testRecipe(), now)
	oc.PromoteIfCapacity()

	oc.Clear()

	if oc.ActiveCount() != 0 || oc.PendingCount() != 0 {
		t.Fatal("clear must empty both sets")
	}
	if o1.State != OrderCancelled || o2.State != OrderCancelled {
		t.Error("clear must mark every order cancelled")
	}
}
