package engine

import (
	"math/rand"
	"sync"
)

// RandomPolicy is the injectable source of every random decision the
// simulation makes: the balk roll, patience and spending variance, the
// early-leave roll and the dish choice. Tests swap in a scripted policy so
// every roll is deterministic.
type RandomPolicy interface {
	// Roll returns a value in [0,1).
	Roll() float64
	// Uniform returns a value in [lo,hi).
	Uniform(lo, hi float64) float64
	// Intn returns a value in [0,n).
	Intn(n int) int
}

// SeededPolicy is the production RandomPolicy backed by math/rand.
// Safe for concurrent use.
type SeededPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPolicy creates a policy from the given seed. The same seed
// replays the same business day.
func NewSeededPolicy(seed int64) *SeededPolicy {
	return &SeededPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *SeededPolicy) Roll() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64()
}

func (p *SeededPolicy) Uniform(lo, hi float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + p.rng.Float64()*(hi-lo)
}

func (p *SeededPolicy) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}
