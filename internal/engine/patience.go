package engine

import (
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/rules"
)

// ClockOutcome is what a single tick of a patience clock concluded.
type ClockOutcome int

const (
	// ClockIdle means nothing happened this tick.
	ClockIdle ClockOutcome = iota
	// ClockWantsOrder means the customer finished thinking and should pick a dish.
	ClockWantsOrder
	// ClockAbandonedHard means patience fully ran out.
	ClockAbandonedHard
	// ClockAbandonedEarly means the customer bailed in the final stretch.
	ClockAbandonedEarly
)

// PatienceClock is the per-customer countdown from settling to abandonment.
// One clock exists per live customer; the session advances all of them each
// tick and cancels each exactly once on the terminal transition.
type PatienceClock struct {
	customer  *customer.Customer
	cfg       Config
	policy    RandomPolicy
	cancelled bool
	ordered   bool // think delay already fired
}

// NewPatienceClock binds a clock to a customer.
func NewPatienceClock(c *customer.Customer, cfg Config, policy RandomPolicy) *PatienceClock {
	return &PatienceClock{customer: c, cfg: cfg, policy: policy}
}

// Customer returns the customer this clock tracks.
func (pc *PatienceClock) Customer() *customer.Customer {
	return pc.customer
}

// Cancelled reports whether the clock was stopped.
func (pc *PatienceClock) Cancelled() bool {
	return pc.cancelled
}

// Cancel stops the clock. Idempotent; a cancelled clock never advances again
// and never re-enters abandonment logic.
func (pc *PatienceClock) Cancel() {
	pc.cancelled = true
}

// Advance moves the clock forward by dt seconds and reports what happened.
// Time accrues only once the customer has settled at the serving position.
func (pc *PatienceClock) Advance(dt float64) ClockOutcome {
	if pc.cancelled || pc.customer.IsTerminal() {
		return ClockIdle
	}
	c := pc.customer
	if !c.HasSettled() {
		return ClockIdle
	}

	// A settled customer without a dish decision is musing over the menu.
	if !pc.ordered && c.State == customer.StateSettled {
		c.State = customer.StateThinking
	}

	c.WaitingTime += dt

	// Hard expiry is unconditional and wins over everything else.
	if c.WaitingTime >= c.Patience {
		pc.cancelled = true
		return ClockAbandonedHard
	}

	// Early bail-out once the final 20% of patience is burning, unless the
	// customer has the very-patient trait.
	if rules.InFinalStretch(c.WaitingTime, c.Patience) && !c.IsVeryPatient {
		chance := rules.EarlyLeaveChance(pc.cfg.EarlyLeaveHazardCoefficient, dt)
		if pc.policy.Roll() < chance {
			pc.cancelled = true
			return ClockAbandonedEarly
		}
	}

	// After the think delay the customer decides on a dish, once.
	if !pc.ordered && c.WaitingTime > pc.cfg.ThinkDelay {
		pc.ordered = true
		return ClockWantsOrder
	}

	return ClockIdle
}
