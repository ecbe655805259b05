package rules

import (
	"math"
	"testing"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
)

func TestCalculateIncome(t *testing.T) {
	params := RevenueParams{BasePrice: 15.0, TipMultiplier: 5.0}
	tests := []struct {
		name     string
		spending float64
		quality  float64
		want     float64
	}{
		{"nominal customer, perfect dish", 1.0, 1.0, 20.0},
		{"big spender", 1.5, 1.0, 22.5},
		{"sloppy dish", 1.0, 0.5, 17.5},
		{"zero quality still pays the base price", 1.0, 0.0, 15.0},
		{"generous quality is not clamped", 1.0, 2.0, 25.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := customer.New("C1", 120, tt.spending, false)
			got := CalculateIncome(c, tt.quality, params)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("income = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestComputePatience(t *testing.T) {
	if got := ComputePatience(120, 1.1, false, 2.0); math.Abs(got-132) > 1e-9 {
		t.Errorf("patience = %f, want 132", got)
	}
	if got := ComputePatience(120, 1.1, true, 2.0); math.Abs(got-264) > 1e-9 {
		t.Errorf("very patient doubles the budget: got %f, want 264", got)
	}
}

func TestComputeSpendingPower(t *testing.T) {
	if got := ComputeSpendingPower(1.0, 0.7); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("spending = %f, want 0.7", got)
	}
}

func TestInFinalStretch(t *testing.T) {
	if InFinalStretch(80, 100) {
		t.Error("exactly 80% is not yet the final stretch")
	}
	if !InFinalStretch(80.01, 100) {
		t.Error("past 80% is the final stretch")
	}
}

func TestEarlyLeaveChance(t *testing.T) {
	// 0.001 * 1s * 60 = 6% per second of waiting in the final stretch.
	if got := EarlyLeaveChance(0.001, 1.0); math.Abs(got-0.06) > 1e-9 {
		t.Errorf("chance = %f, want 0.06", got)
	}
	// Scales linearly with the tick size.
	if got := EarlyLeaveChance(0.001, 0.5); math.Abs(got-0.03) > 1e-9 {
		t.Errorf("chance = %f, want 0.03", got)
	}
}
