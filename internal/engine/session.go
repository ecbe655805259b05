// Package engine contains the food-stall simulation: arrivals, queueing,
// patience, order admission and the day's ledger.
//
// ARCHITECTURAL RULE: all mutation of queue, orders and totals goes through
// one BusinessSession behind a single lock. Presentation layers observe the
// EventLog and issue commands; they never reach into internal lists.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/customer"
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/menu"
	"github.com/hermiaTT/WanderingFoodCart/internal/domain/rules"
	"github.com/hermiaTT/WanderingFoodCart/internal/events"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/logger"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/metrics"
)

// CompletionResult reports the outcome of an order fulfillment command.
// Completed is false when no active order existed; that is a graceful no-op,
// not an error.
type CompletionResult struct {
	Completed  bool    `json:"completed"`
	OrderID    string  `json:"order_id,omitempty"`
	CustomerID string  `json:"customer_id,omitempty"`
	Income     float64 `json:"income"`
}

// BusinessSession orchestrates one business day of the stall. It owns the
// queue, the order admission controller, every patience clock and the
// daily ledger, and exposes the full command surface.
type BusinessSession struct {
	mu sync.Mutex

	cfg    Config
	menu   *menu.Menu
	policy RandomPolicy
	log    *events.EventLog
	logger *logger.Logger

	queue    *CustomerQueue
	orders   *OrderAdmissionController
	arrivals *ArrivalGenerator

	customers map[string]*customer.Customer
	clocks    map[string]*PatienceClock
	arrival   []string // customer IDs in spawn order, for deterministic clock iteration

	operating    bool
	businessDay  int
	tickNumber   int64
	elapsed      float64 // simulated seconds since the day opened
	dailyIncome  float64
	dailyExpense float64
	totalMoney   float64
}

// NewBusinessSession validates the configuration and wires up a closed
// session. A nil policy gets a time-seeded one.
func NewBusinessSession(cfg Config, m *menu.Menu, policy RandomPolicy, log *events.EventLog, appLogger *logger.Logger) (*BusinessSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil || m.Len() == 0 {
		return nil, &ConfigError{Field: "menu", Reason: "at least one recipe is required"}
	}
	if log == nil {
		return nil, &ConfigError{Field: "event_log", Reason: "event log is required"}
	}
	if policy == nil {
		policy = NewSeededPolicy(time.Now().UnixNano())
	}
	return &BusinessSession{
		cfg:       cfg,
		menu:      m,
		policy:    policy,
		log:       log,
		logger:    appLogger,
		queue:     NewCustomerQueue(),
		orders:    NewOrderAdmissionController(cfg.MaxOrdersAtOnce),
		arrivals:  NewArrivalGenerator(cfg, policy),
		customers: make(map[string]*customer.Customer),
		clocks:    make(map[string]*PatienceClock),
	}, nil
}

// Start opens the day: totals reset, arrivals begin. No-op when already operating.
func (s *BusinessSession) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.operating {
		return
	}
	s.operating = true
	s.businessDay++
	s.tickNumber = 0
	s.elapsed = 0
	s.dailyIncome = 0
	s.dailyExpense = 0
	s.arrivals.Reset()

	s.logger.Info("Business day opened")
	s.emit(events.StallEvent{Type: events.EventTypeSessionStarted})
}

// End closes the day: arrivals stop, every remaining customer is destroyed
// without payout, all orders are cancelled, and the profit folds into the
// running total. No-op when already closed; calling it twice changes nothing.
func (s *BusinessSession) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return
	}
	s.operating = false

	// Stop every clock before touching state so no scheduled work dangles.
	for _, pc := range s.clocks {
		pc.Cancel()
	}
	s.clocks = make(map[string]*PatienceClock)
	s.customers = make(map[string]*customer.Customer)
	s.arrival = nil
	s.queue.Clear()
	s.orders.Clear()

	profit := s.dailyIncome - s.dailyExpense
	s.totalMoney += profit

	s.logger.Event("DAY_CLOSED", "", "profit booked into the running total")
	s.emit(events.StallEvent{
		Type: events.EventTypeSessionEnded,
		Payload: events.SessionEndedPayload{
			DailyIncome:  s.dailyIncome,
			DailyExpense: s.dailyExpense,
			Profit:       profit,
			TotalMoney:   s.totalMoney,
		},
	})
}

// Advance moves the simulation forward by dt seconds: arrival attempts fire,
// every patience clock ticks, due abandonments and dish decisions resolve.
// Does nothing while closed.
func (s *BusinessSession) Advance(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating || dt <= 0 {
		return
	}
	s.tickNumber++
	s.elapsed += dt

	for i := 0; i < s.arrivals.Advance(dt); i++ {
		s.attemptArrival()
	}

	// Advance clocks in spawn order. Outcomes only remove the clock's own
	// customer, so iteration order cannot affect the invariants.
	for _, id := range append([]string(nil), s.arrival...) {
		pc, ok := s.clocks[id]
		if !ok {
			continue
		}
		switch pc.Advance(dt) {
		case ClockWantsOrder:
			s.decideDish(pc.Customer())
		case ClockAbandonedHard:
			s.abandon(pc.Customer(), false)
		case ClockAbandonedEarly:
			s.abandon(pc.Customer(), true)
		}
	}

	s.emit(events.StallEvent{
		Type: events.EventTypeTimeTick,
		Payload: events.TimeTickPayload{
			BusinessDay: s.businessDay,
			TickNumber:  s.tickNumber,
			Elapsed:     s.elapsed,
		},
	})
}

func (s *BusinessSession) attemptArrival() {
	c := s.arrivals.Attempt(s.queue.Len())
	if c == nil {
		s.logger.Info("Queue too long, prospective customer balked")
		metrics.Get().RecordBalk()
		return
	}
	s.customers[c.ID] = c
	s.arrival = append(s.arrival, c.ID)
	s.queue.Enqueue(c)
	s.clocks[c.ID] = NewPatienceClock(c, s.cfg, s.policy)

	metrics.Get().RecordSpawn()
	s.emit(events.StallEvent{
		Type:       events.EventTypeCustomerSpawned,
		CustomerID: c.ID,
		Payload: events.CustomerSpawnedPayload{
			Patience:      c.Patience,
			SpendingPower: c.SpendingPower,
			VeryPatient:   c.IsVeryPatient,
			QueueLength:   s.queue.Len(),
		},
	})
}

// MarkCustomerSettled is the external movement-completion signal: the
// customer reached the serving position and its patience starts accruing.
func (s *BusinessSession) MarkCustomerSettled(customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return ErrSessionClosed
	}
	c, ok := s.customers[customerID]
	if !ok {
		return &CustomerNotFoundError{CustomerID: customerID}
	}
	if !c.Settle() {
		// Already settled or terminal; the movement signal may repeat.
		return nil
	}
	s.emit(events.StallEvent{Type: events.EventTypeCustomerSettled, CustomerID: c.ID})
	return nil
}

// decideDish picks a recipe for a customer that finished thinking.
// Runs under the session lock.
func (s *BusinessSession) decideDish(c *customer.Customer) {
	recipe := s.menu.At(s.policy.Intn(s.menu.Len()))
	if _, err := s.placeOrder(c, recipe); err != nil {
		s.logger.Error("Dish decision failed: " + err.Error())
	}
}

// PlaceOrder creates an order for a known customer. Used by external
// collaborators that script the dish choice instead of letting the think
// delay decide. At most one open order exists per customer; repeating the
// command returns the existing order.
func (s *BusinessSession) PlaceOrder(customerID, recipeID string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return nil, ErrSessionClosed
	}
	c, ok := s.customers[customerID]
	if !ok {
		return nil, &CustomerNotFoundError{CustomerID: customerID}
	}
	recipe, ok := s.menu.ByID(recipeID)
	if !ok {
		return nil, &RecipeNotFoundError{RecipeID: recipeID}
	}
	return s.placeOrder(c, recipe)
}

func (s *BusinessSession) placeOrder(c *customer.Customer, recipe menu.Recipe) (*Order, error) {
	if c.HasOpenOrder() {
		if existing, ok := s.orders.OpenOrderFor(c.ID); ok {
			return existing, nil
		}
	}
	o := s.orders.Place(c.ID, recipe, time.Now())
	c.OrderID = o.ID
	c.State = customer.StateWaiting

	metrics.Get().RecordOrderPlaced()
	s.emit(events.StallEvent{
		Type:       events.EventTypeOrderPlaced,
		CustomerID: c.ID,
		OrderID:    o.ID,
		Payload:    events.OrderPlacedPayload{RecipeID: recipe.ID, RecipeName: recipe.Name},
	})
	s.promote()
	return o, nil
}

// promote moves backlog into the kitchen while capacity remains, emitting
// OrderStarted for each promotion. Runs under the session lock.
func (s *BusinessSession) promote() {
	for {
		o := s.orders.PromoteIfCapacity()
		if o == nil {
			return
		}
		s.emit(events.StallEvent{
			Type:       events.EventTypeOrderStarted,
			CustomerID: o.CustomerID,
			OrderID:    o.ID,
		})
	}
}

// CompleteOrder fulfills the active order for the given customer. When no
// active order matches, the oldest active order is paid out instead: the
// deliberate fallback heuristic, kept even though it can credit the wrong
// customer. With an empty active set the command is a no-op result.
func (s *BusinessSession) CompleteOrder(customerID string, qualityScore float64) (CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return CompletionResult{}, ErrSessionClosed
	}
	o, ok := s.orders.Complete(customerID)
	if !ok {
		s.logger.Warn("CompleteOrder with no active orders, ignoring")
		return CompletionResult{}, nil
	}
	return s.settleCompletion(o, qualityScore), nil
}

// CompleteOldestActiveOrder fulfills whichever active order is oldest.
// Manual-override variant of CompleteOrder with the same no-op semantics.
func (s *BusinessSession) CompleteOldestActiveOrder(qualityScore float64) (CompletionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return CompletionResult{}, ErrSessionClosed
	}
	o, ok := s.orders.CompleteOldest()
	if !ok {
		s.logger.Warn("No active orders to complete")
		return CompletionResult{}, nil
	}
	return s.settleCompletion(o, qualityScore), nil
}

// settleCompletion pays out a completed order and retires its customer.
// Runs under the session lock.
func (s *BusinessSession) settleCompletion(o *Order, qualityScore float64) CompletionResult {
	income := 0.0
	if c, ok := s.customers[o.CustomerID]; ok {
		income = rules.CalculateIncome(c, qualityScore, rules.RevenueParams{
			BasePrice:     s.cfg.BasePrice,
			TipMultiplier: s.cfg.TipMultiplier,
		})
		s.dailyIncome += income
		s.retire(c, customer.StateServed)
	}
	metrics.Get().RecordOrderCompleted(income)
	s.emit(events.StallEvent{
		Type:       events.EventTypeOrderCompleted,
		CustomerID: o.CustomerID,
		OrderID:    o.ID,
		Payload: events.OrderCompletedPayload{
			RecipeID:     o.Recipe.ID,
			QualityScore: qualityScore,
			Income:       income,
		},
	})
	s.promote()
	return CompletionResult{
		Completed:  true,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Income:     income,
	}
}

// abandon resolves a customer walking away: it leaves the queue, any open
// order is cancelled so it stops consuming admission capacity, and freed
// capacity promotes the backlog. Runs under the session lock.
func (s *BusinessSession) abandon(c *customer.Customer, leftEarly bool) {
	cancelledID := ""
	if o, ok := s.orders.CancelFor(c.ID); ok {
		cancelledID = o.ID
	}
	waiting, patience := c.WaitingTime, c.Patience
	s.retire(c, customer.StateAbandoned)

	s.logger.Event("CUSTOMER_ABANDONED", c.ID, "walked away from the queue")
	metrics.Get().RecordAbandon()
	s.emit(events.StallEvent{
		Type:       events.EventTypeCustomerAbandoned,
		CustomerID: c.ID,
		OrderID:    cancelledID,
		Payload: events.CustomerAbandonedPayload{
			WaitingTime:    waiting,
			Patience:       patience,
			LeftEarly:      leftEarly,
			CancelledOrder: cancelledID,
		},
	})
	s.promote()
}

// retire moves a customer into a terminal state and tears down its
// membership everywhere: queue, clock, registry. Runs under the session lock.
func (s *BusinessSession) retire(c *customer.Customer, terminal customer.State) {
	c.State = terminal
	c.OrderID = ""
	s.queue.Remove(c)
	if pc, ok := s.clocks[c.ID]; ok {
		pc.Cancel()
		delete(s.clocks, c.ID)
	}
	delete(s.customers, c.ID)
}

// RecordExpense books a cost against the day's ledger.
func (s *BusinessSession) RecordExpense(amount float64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.operating {
		return ErrSessionClosed
	}
	s.dailyExpense += amount
	s.emit(events.StallEvent{
		Type:    events.EventTypeExpenseRecorded,
		Payload: events.ExpenseRecordedPayload{Amount: amount, Reason: reason},
	})
	return nil
}

// emit stamps the business day onto an event and appends it. Runs under the
// session lock; EventLog has its own synchronization for readers.
func (s *BusinessSession) emit(e events.StallEvent) {
	e.BusinessDay = s.businessDay
	s.log.Append(e)
}

// --- Queries ---

// IsOperating reports whether the day is open.
func (s *BusinessSession) IsOperating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.operating
}

// QueueLength returns the current waiting-line length.
func (s *BusinessSession) QueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// ActiveOrderCount returns how many orders the kitchen is working.
func (s *BusinessSession) ActiveOrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.ActiveCount()
}

// PendingOrderCount returns the order backlog length.
func (s *BusinessSession) PendingOrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders.PendingCount()
}

// TotalMoney returns the running total across days.
func (s *BusinessSession) TotalMoney() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMoney
}

// DailyIncome returns the income accumulated today.
func (s *BusinessSession) DailyIncome() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyIncome
}

// DailyExpense returns the expense accumulated today.
func (s *BusinessSession) DailyExpense() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyExpense
}

// BusinessDay returns the current day number, starting at 1 on first open.
func (s *BusinessSession) BusinessDay() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.businessDay
}

// PatienceRemaining returns the fraction of patience a known customer has
// left, in [0,1]. Presentation renders this as the countdown display.
func (s *BusinessSession) PatienceRemaining(customerID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[customerID]
	if !ok {
		return 0, &CustomerNotFoundError{CustomerID: customerID}
	}
	remaining := 1.0 - c.WaitingTime/c.Patience
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Customers returns a snapshot of all live customers in arrival order.
// The snapshot holds value copies taken under the lock, so readers (the
// status endpoint, the simulator) never see a customer mid-mutation.
func (s *BusinessSession) Customers() []customer.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]customer.Customer, 0, len(s.customers))
	for _, id := range s.arrival {
		if c, ok := s.customers[id]; ok {
			out = append(out, *c)
		}
	}
	return out
}

// RestoreTotalMoney seeds the running total from persistence at boot.
// Rejected while operating; the day's ledger owns the number then.
func (s *BusinessSession) RestoreTotalMoney(total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.operating {
		return errors.New("cannot restore total money while operating")
	}
	s.totalMoney = total
	return nil
}
