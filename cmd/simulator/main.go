// Package main - simulator
// Headless day runner: drives a full business day at simulated speed with a
// scripted presentation layer (instant walking, steady kitchen) and prints
// the day's ledger. Used for policy tuning and smoke runs.
package main

import (
	"flag"
	"fmt"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/menu"
	"github.com/hermiaTT/WanderingFoodCart/internal/engine"
	"github.com/hermiaTT/WanderingFoodCart/internal/events"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/logger"
)

func main() {
	seed := flag.Int64("seed", 42, "Random seed; the same seed replays the same day")
	dayLength := flag.Float64("day-length", 8*3600, "Business day length in simulated seconds")
	dt := flag.Float64("dt", 1.0, "Tick size in simulated seconds")
	cookTime := flag.Float64("cook-time", 45, "Seconds the kitchen needs per order")
	days := flag.Int("days", 1, "Number of business days to run")
	flag.Parse()

	appLogger := logger.NewLogger()
	policy := engine.NewSeededPolicy(*seed)
	eventLog := events.NewEventLog(nil) // in-memory only

	session, err := engine.NewBusinessSession(engine.DefaultConfig(), menu.Default(), policy, eventLog, appLogger)
	if err != nil {
		fmt.Println("session construction failed:", err)
		return
	}

	fmt.Println("=========================================")
	fmt.Println("WanderingFoodCart - Day Simulator")
	fmt.Printf("seed=%d day-length=%.0fs dt=%.1fs cook-time=%.0fs\n", *seed, *dayLength, *dt, *cookTime)
	fmt.Println("=========================================")

	for day := 0; day < *days; day++ {
		runDay(session, eventLog, policy, *dayLength, *dt, *cookTime)
	}

	fmt.Printf("\nFinal total money: %.2f\n", session.TotalMoney())
}

// runDay drives one full day synchronously, acting as the presentation
// layer: customers settle on the tick after spawning and the kitchen
// finishes the oldest active order every cookTime seconds.
func runDay(session *engine.BusinessSession, eventLog *events.EventLog, policy engine.RandomPolicy, dayLength, dt, cookTime float64) {
	session.Start()

	var cookElapsed float64
	served, walked := 0, 0

	for elapsed := 0.0; elapsed < dayLength; elapsed += dt {
		session.Advance(dt)

		// Walking is instant in headless mode.
		for _, c := range session.Customers() {
			if c.State == customer.StateQueued {
				if err := session.MarkCustomerSettled(c.ID); err != nil {
					fmt.Println("settle failed:", err)
				}
			}
		}

		cookElapsed += dt
		if cookElapsed >= cookTime {
			cookElapsed -= cookTime
			quality := policy.Uniform(0.5, 1.0)
			result, err := session.CompleteOldestActiveOrder(quality)
			if err == nil && result.Completed {
				served++
			}
		}
	}

	day := session.BusinessDay()
	for _, e := range eventLog.GetByDay(day) {
		if e.Type == events.EventTypeCustomerAbandoned {
			walked++
		}
	}

	income := session.DailyIncome()
	expense := session.DailyExpense()
	session.End()

	fmt.Printf("\n--- Day %d ---\n", day)
	fmt.Printf("  served:     %d\n", served)
	fmt.Printf("  walked off: %d\n", walked)
	fmt.Printf("  income:     %.2f\n", income)
	fmt.Printf("  expense:    %.2f\n", expense)
	fmt.Printf("  profit:     %.2f\n", income-expense)
}
