package engine

import (
	"github.com/google/uuid"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/rules"
)

// ArrivalGenerator produces new customers on a fixed interval of simulated
// time. It owns the arrival timer and the attribute rolls; the session wires
// the spawned customer into queue and clock.
type ArrivalGenerator struct {
	cfg     Config
	policy  RandomPolicy
	elapsed float64 // simulated seconds since the last arrival attempt
}

// NewArrivalGenerator creates a generator that attempts one arrival every
// cfg.BaseSpawnInterval simulated seconds.
func NewArrivalGenerator(cfg Config, policy RandomPolicy) *ArrivalGenerator {
	return &ArrivalGenerator{cfg: cfg, policy: policy}
}

// Reset clears the interval accumulator. Called when the day opens.
func (g *ArrivalGenerator) Reset() {
	g.elapsed = 0
}

// Advance accumulates dt and returns how many arrival attempts are due.
// With dt larger than the interval multiple attempts fire in one tick.
func (g *ArrivalGenerator) Advance(dt float64) int {
	g.elapsed += dt
	attempts := 0
	for g.elapsed >= g.cfg.BaseSpawnInterval {
		g.elapsed -= g.cfg.BaseSpawnInterval
		attempts++
	}
	return attempts
}

// Attempt runs one arrival attempt against the current queue length.
// A full queue does not hard-block the spawn: it only gates the balk roll,
// so a "stay" roll still joins one past capacity. Returns nil when the
// prospective customer balked.
func (g *ArrivalGenerator) Attempt(queueLen int) *customer.Customer {
	if queueLen >= g.cfg.MaxQueueLength {
		if g.policy.Roll() < g.cfg.BalkProbability {
			return nil
		}
	}
	return g.spawn()
}

func (g *ArrivalGenerator) spawn() *customer.Customer {
	veryPatient := g.policy.Roll() < g.cfg.VeryPatientProbability
	patience := rules.ComputePatience(
		g.cfg.BasePatience,
		g.policy.Uniform(g.cfg.PatienceVarianceLo, g.cfg.PatienceVarianceHi),
		veryPatient,
		g.cfg.VeryPatientMultiplier,
	)
	spending := rules.ComputeSpendingPower(
		g.cfg.BaseSpendingPower,
		g.policy.Uniform(g.cfg.SpendingVarianceLo, g.cfg.SpendingVarianceHi),
	)
	return customer.New(uuid.NewString(), patience, spending, veryPatient)
}
