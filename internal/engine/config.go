package engine

// Config holds every numeric policy knob of the simulation. Zero values are
// never valid; start from DefaultConfig and override.
type Config struct {
	// Arrivals
	BaseSpawnInterval float64 `json:"base_spawn_interval"` // seconds between arrival attempts
	MaxQueueLength    int     `json:"max_queue_length"`
	BalkProbability   float64 `json:"balk_probability"` // chance a prospective arrival walks off when the queue is full

	// Patience
	BasePatience           float64 `json:"base_patience"` // seconds
	PatienceVarianceLo     float64 `json:"patience_variance_lo"`
	PatienceVarianceHi     float64 `json:"patience_variance_hi"`
	VeryPatientProbability float64 `json:"very_patient_probability"`
	VeryPatientMultiplier  float64 `json:"very_patient_multiplier"`
	// EarlyLeaveHazardCoefficient scales the per-tick leave chance once a
	// customer is in the final 20% of its patience.
	EarlyLeaveHazardCoefficient float64 `json:"early_leave_hazard_coefficient"`
	// ThinkDelay is how long a settled customer muses before picking a dish.
	ThinkDelay float64 `json:"think_delay"`

	// Spending
	BaseSpendingPower  float64 `json:"base_spending_power"`
	SpendingVarianceLo float64 `json:"spending_variance_lo"`
	SpendingVarianceHi float64 `json:"spending_variance_hi"`

	// Kitchen
	MaxOrdersAtOnce int `json:"max_orders_at_once"`

	// Pricing
	BasePrice     float64 `json:"base_price"`
	TipMultiplier float64 `json:"tip_multiplier"`
}

// DefaultConfig returns the stall's standard operating parameters.
func DefaultConfig() Config {
	return Config{
		BaseSpawnInterval: 15.0,
		MaxQueueLength:    8,
		BalkProbability:   0.7,

		BasePatience:                120.0,
		PatienceVarianceLo:          0.8,
		PatienceVarianceHi:          1.2,
		VeryPatientProbability:      0.2,
		VeryPatientMultiplier:       2.0,
		EarlyLeaveHazardCoefficient: 0.001,
		ThinkDelay:                  2.0,

		BaseSpendingPower:  1.0,
		SpendingVarianceLo: 0.7,
		SpendingVarianceHi: 1.5,

		MaxOrdersAtOnce: 3,

		BasePrice:     15.0,
		TipMultiplier: 5.0,
	}
}

// Validate rejects structurally broken configurations. A session must never
// be constructed from a config that fails here.
func (c Config) Validate() error {
	if c.BaseSpawnInterval <= 0 {
		return &ConfigError{Field: "base_spawn_interval", Reason: "must be positive"}
	}
	if c.MaxQueueLength <= 0 {
		return &ConfigError{Field: "max_queue_length", Reason: "must be positive"}
	}
	if c.MaxOrdersAtOnce <= 0 {
		return &ConfigError{Field: "max_orders_at_once", Reason: "must be positive"}
	}
	if c.BalkProbability < 0 || c.BalkProbability > 1 {
		return &ConfigError{Field: "balk_probability", Reason: "must be within [0,1]"}
	}
	if c.BasePatience <= 0 {
		return &ConfigError{Field: "base_patience", Reason: "must be positive"}
	}
	if c.PatienceVarianceLo <= 0 || c.PatienceVarianceHi < c.PatienceVarianceLo {
		return &ConfigError{Field: "patience_variance", Reason: "range must be positive and ordered"}
	}
	if c.VeryPatientProbability < 0 || c.VeryPatientProbability > 1 {
		return &ConfigError{Field: "very_patient_probability", Reason: "must be within [0,1]"}
	}
	if c.VeryPatientMultiplier < 1 {
		return &ConfigError{Field: "very_patient_multiplier", Reason: "must be at least 1"}
	}
	if c.SpendingVarianceLo <= 0 || c.SpendingVarianceHi < c.SpendingVarianceLo {
		return &ConfigError{Field: "spending_variance", Reason: "range must be positive and ordered"}
	}
	if c.ThinkDelay < 0 {
		return &ConfigError{Field: "think_delay", Reason: "must not be negative"}
	}
	if c.EarlyLeaveHazardCoefficient < 0 {
		return &ConfigError{Field: "early_leave_hazard_coefficient", Reason: "must not be negative"}
	}
	return nil
}
