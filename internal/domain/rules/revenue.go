// Package rules contains the pure calculation logic for the stall economy.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"

// RevenueParams holds the pricing knobs for an income calculation.
type RevenueParams struct {
	BasePrice     float64 // flat dish price
	TipMultiplier float64 // scales spendingPower * qualityScore into a tip
}

// CalculateIncome computes the payout for a fulfilled order.
//
//	income = basePrice + spendingPower * qualityScore * tipMultiplier
//
// qualityScore is accepted as-is; out-of-range values are the caller's
// responsibility, nothing is clamped.
func CalculateIncome(c *customer.Customer, qualityScore float64, params RevenueParams) float64 {
	tip := c.SpendingPower * qualityScore * params.TipMultiplier
	return params.BasePrice + tip
}

// ComputePatience derives a customer's patience budget from the base value,
// a variance factor already drawn from the configured range, and the
// very-patient trait.
func ComputePatience(basePatience, varianceFactor float64, veryPatient bool, veryPatientMultiplier float64) float64 {
	patience := basePatience * varianceFactor
	if veryPatient {
		patience *= veryPatientMultiplier
	}
	return patience
}

// ComputeSpendingPower derives a customer's spending power from the base
// value and a variance factor already drawn from the configured range.
func ComputeSpendingPower(baseSpending, varianceFactor float64) float64 {
	return baseSpending * varianceFactor
}

// InFinalStretch reports whether a waiting customer has burned through the
// last 20% of its patience, where the early-leave hazard kicks in.
func InFinalStretch(waitingTime, patience float64) bool {
	return waitingTime > patience*0.8
}

// EarlyLeaveChance returns the probability of bailing during a tick of dt
// seconds once in the final stretch. With the default coefficient of 0.001
// this works out to roughly a 6%/minute instantaneous hazard.
func EarlyLeaveChance(hazardCoefficient, dt float64) float64 {
	return hazardCoefficient * dt * 60.0
}
