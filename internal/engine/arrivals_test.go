package engine

import (
	"math"
	"testing"
)

func TestArrivalTimerFiresOnInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseSpawnInterval = 15
	g := NewArrivalGenerator(cfg, &scriptedPolicy{})

	if n := g.Advance(14.9); n != 0 {
		t.Fatalf("no attempt due before the interval, got %d", n)
	}
	if n := g.Advance(0.1); n != 1 {
		t.Fatalf("attempt due exactly at the interval, got %d", n)
	}
	// A large tick catches up with multiple attempts.
	if n := g.Advance(45); n != 3 {
		t.Fatalf("expected 3 attempts from one large tick, got %d", n)
	}
}

func TestAttemptBalksOnFullQueue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQueueLength = 2
	cfg.BalkProbability = 0.7

	// Roll below the balk probability: the prospect walks off.
	g := NewArrivalGenerator(cfg, &scriptedPolicy{rolls: []float64{0.3}})
	if c := g.Attempt(2); c != nil {
		t.Fatal("a balk roll below the threshold must yield no customer")
	}

	// Roll at or above it: the prospect joins anyway, one past capacity.
	g = NewArrivalGenerator(cfg, &scriptedPolicy{rolls: []float64{0.9, 0.99}})
	if c := g.Attempt(2); c == nil {
		t.Fatal("a stay roll must spawn even with a full queue")
	}
}

func TestAttemptSkipsBalkRollBelowCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxQueueLength = 8

	// Only the very-patient roll is scripted; no balk roll may be consumed.
	p := &scriptedPolicy{rolls: []float64{0.99}}
	if c := NewArrivalGenerator(cfg, p).Attempt(3); c == nil {
		t.Fatal("spawn must be unconditional below capacity")
	}
	if len(p.rolls) != 0 {
		t.Error("the trait roll was not consumed, so a balk roll was taken below capacity")
	}
}

func TestSpawnedAttributes(t *testing.T) {
	cfg := DefaultConfig()
	p := &scriptedPolicy{
		rolls:    []float64{0.1},      // below 0.2: very patient
		uniforms: []float64{1.1, 1.3}, // patience factor, spending factor
	}
	c := NewArrivalGenerator(cfg, p).Attempt(0)
	if c == nil {
		t.Fatal("expected a spawn")
	}
	if !c.IsVeryPatient {
		t.Error("trait roll below the probability must mark the customer very patient")
	}
	// 120 * 1.1 * 2.0 for the very patient trait.
	if math.Abs(c.Patience-264.0) > 1e-9 {
		t.Errorf("patience = %f, want 264", c.Patience)
	}
	if math.Abs(c.SpendingPower-1.3) > 1e-9 {
		t.Errorf("spending power = %f, want 1.3", c.SpendingPower)
	}
	if c.WaitingTime != 0 || c.HasSettled() {
		t.Error("a fresh customer must be queued with zero waiting")
	}
}
