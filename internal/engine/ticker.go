package engine

import (
	"context"
	"time"

	"github.com/hermiaTT/WanderingFoodCart/internal/platform/logger"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/metrics"
)

// DefaultTickRate is how often the simulation advances in real time.
const DefaultTickRate = 1 * time.Second

// Ticker is the simulation heartbeat. It knows nothing about customers or
// orders; it only converts wall-clock ticks into Advance(dt) calls, with an
// optional time scale for fast-forwarded days.
type Ticker struct {
	session   *BusinessSession
	logger    *logger.Logger
	tickRate  time.Duration
	timeScale float64 // simulated seconds per real second
	stopChan  chan struct{}
}

// NewTicker creates a ticker driving the given session at the given rate.
// A timeScale of 1.0 runs the day in real time.
func NewTicker(session *BusinessSession, log *logger.Logger, tickRate time.Duration, timeScale float64) *Ticker {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if timeScale <= 0 {
		timeScale = 1.0
	}
	return &Ticker{
		session:   session,
		logger:    log,
		tickRate:  tickRate,
		timeScale: timeScale,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the heartbeat. Call in a goroutine.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info("Simulation ticker started")

	ticker := time.NewTicker(t.tickRate)
	defer ticker.Stop()

	dt := t.tickRate.Seconds() * t.timeScale

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Simulation ticker stopped by context")
			return
		case <-t.stopChan:
			t.logger.Info("Simulation ticker stopped manually")
			return
		case <-ticker.C:
			started := time.Now()
			t.session.Advance(dt)
			metrics.Get().RecordTick(time.Since(started))
		}
	}
}

// Stop gracefully stops the ticker.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
