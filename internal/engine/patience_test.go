package engine

import (
	"testing"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
)

func TestClockIdlesUntilSettled(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 10, 1.0, false)
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{})

	for i := 0; i < 5; i++ {
		if out := clock.Advance(10); out != ClockIdle {
			t.Fatalf("unsettled customer must not accrue waiting, got outcome %v", out)
		}
	}
	if c.WaitingTime != 0 {
		t.Errorf("waiting accrued before settling: %f", c.WaitingTime)
	}
}

func TestClockHardExpiry(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 10, 1.0, false)
	c.Settle()
	// Roll of 0.99 keeps the early-leave hazard from firing first.
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{})

	out := clock.Advance(10)
	if out != ClockAbandonedHard {
		t.Fatalf("expected hard abandonment at full patience, got %v", out)
	}
	if !clock.Cancelled() {
		t.Error("an expired clock must cancel itself")
	}
	if clock.Advance(10) != ClockIdle {
		t.Error("a cancelled clock must never fire again")
	}
}

func TestClockEarlyLeaveInFinalStretch(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 100, 1.0, false)
	c.Settle()
	c.WaitingTime = 85 // past 80% of patience

	// EarlyLeaveChance(0.001, dt=1) = 0.06; a roll below that bails.
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{rolls: []float64{0.01}})
	clock.ordered = true

	if out := clock.Advance(1); out != ClockAbandonedEarly {
		t.Fatalf("expected early abandonment, got %v", out)
	}
}

func TestClockEarlyLeaveRollSurvives(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 100, 1.0, false)
	c.Settle()
	c.WaitingTime = 85

	clock := NewPatienceClock(c, cfg, &scriptedPolicy{rolls: []float64{0.5}})
	clock.ordered = true

	if out := clock.Advance(1); out != ClockIdle {
		t.Fatalf("a roll above the hazard must not abandon, got %v", out)
	}
	if c.WaitingTime != 86 {
		t.Errorf("waiting should keep accruing, got %f", c.WaitingTime)
	}
}

func TestVeryPatientNeverBailsEarly(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 100, 1.0, true)
	c.Settle()
	c.WaitingTime = 95

	// A roll of 0 would bail any regular customer.
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{rolls: []float64{0}})
	clock.ordered = true

	if out := clock.Advance(1); out != ClockIdle {
		t.Fatalf("very patient customers never leave early, got %v", out)
	}
	// They still expire when patience fully runs out.
	if out := clock.Advance(10); out != ClockAbandonedHard {
		t.Fatalf("very patient customers still expire, got %v", out)
	}
}

func TestClockWantsOrderOnceAfterThinkDelay(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 120, 1.0, false)
	c.Settle()
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{})

	if out := clock.Advance(1); out != ClockIdle {
		t.Fatalf("still within think delay, got %v", out)
	}
	if c.State != customer.StateThinking {
		t.Errorf("a settled customer without an order is thinking, got %s", c.State)
	}
	if out := clock.Advance(2); out != ClockWantsOrder {
		t.Fatalf("expected the dish decision after the think delay, got %v", out)
	}
	if out := clock.Advance(1); out != ClockIdle {
		t.Fatalf("the dish decision must fire exactly once, got %v", out)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	cfg := DefaultConfig()
	c := customer.New("C1", 120, 1.0, false)
	c.Settle()
	clock := NewPatienceClock(c, cfg, &scriptedPolicy{})

	clock.Cancel()
	clock.Cancel()
	if !clock.Cancelled() {
		t.Fatal("clock should stay cancelled")
	}
	if clock.Advance(1000) != ClockIdle {
		t.Error("a cancelled clock must not advance")
	}
	if c.WaitingTime != 0 {
		t.Error("a cancelled clock must not accrue waiting time")
	}
}
