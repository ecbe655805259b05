// Package main is the entry point for the WanderingFoodCart stall server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hermiaTT/WanderingFoodCart/internal/domain/menu"
	"github.com/hermiaTT/WanderingFoodCart/internal/engine"
	"github.com/hermiaTT/WanderingFoodCart/internal/events"
	"github.com/hermiaTT/WanderingFoodCart/internal/infra/storage"
	"github.com/hermiaTT/WanderingFoodCart/internal/network"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/logger"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/metrics"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/tuning"
)

// stallID scopes events and ledger rows; single-stall deployment.
const stallID = "STALL_1"

// persisterAdapter translates domain events into the storage shape and
// records write latency for the metrics collector.
type persisterAdapter struct {
	repo storage.EventRepository
}

func (a *persisterAdapter) Append(event events.StallEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		metrics.Get().RecordEventWrite(0, err)
		return fmt.Errorf("encode payload for event %s: %w", event.ID, err)
	}
	var payloadMap map[string]interface{}
	if err := json.Unmarshal(payloadBytes, &payloadMap); err != nil {
		metrics.Get().RecordEventWrite(0, err)
		return fmt.Errorf("decode payload for event %s: %w", event.ID, err)
	}

	storageEvent := storage.StallEvent{
		ID:          event.ID,
		StallID:     stallID,
		Timestamp:   event.Timestamp,
		EventType:   string(event.Type),
		CustomerID:  event.CustomerID,
		OrderID:     event.OrderID,
		Payload:     payloadMap,
		BusinessDay: event.BusinessDay,
	}

	started := time.Now()
	err = a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(time.Since(started), err)
	return err
}

func main() {
	log.Println("[STALL-SERVER] Initializing WanderingFoodCart server...")

	appLogger := logger.NewLogger()
	tune := tuning.DefaultConfig()

	var eventRepo storage.EventRepository
	var ledgerRepo storage.LedgerRepository

	if dsn := os.Getenv("PGDSN"); dsn != "" {
		appLogger.Info("Connecting to Postgres...")
		db, err := storage.OpenPostgres(dsn, tune.DBMaxOpenConns, tune.DBMaxIdleConns)
		if err != nil {
			appLogger.Error("Failed to initialize Postgres: " + err.Error())
			os.Exit(1)
		}
		eventRepo = storage.NewPostgresEventRepository(db)
		ledgerRepo = storage.NewPostgresLedgerRepository(db)
	} else {
		dbPath := os.Getenv("STALL_DB")
		if dbPath == "" {
			dbPath = "stall.db"
		}
		appLogger.Info("Initializing SQLite database '" + dbPath + "'...")
		db, err := storage.InitSQLite(dbPath)
		if err != nil {
			appLogger.Error("Failed to initialize SQLite: " + err.Error())
			os.Exit(1)
		}
		eventRepo = storage.NewSQLiteEventRepository(db)
		ledgerRepo = storage.NewSQLiteLedgerRepository(db)
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewEventLog(&persisterAdapter{repo: eventRepo})

	appLogger.Info("Bootstrapping BusinessSession...")
	session, err := engine.NewBusinessSession(
		engine.DefaultConfig(),
		menu.Default(),
		engine.NewSeededPolicy(time.Now().UnixNano()),
		eventLog,
		appLogger,
	)
	if err != nil {
		appLogger.Error("Failed to construct session: " + err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore the running total from the last closed day.
	if total, ok, err := ledgerRepo.LastTotal(ctx, stallID); err != nil {
		appLogger.Error("Failed to query ledger: " + err.Error())
	} else if ok {
		if err := session.RestoreTotalMoney(total); err == nil {
			appLogger.Info("Restored running total from ledger")
		}
	}

	// Simulation heartbeat. SIM_SPEED > 1 fast-forwards the day.
	timeScale := 1.0
	if v := os.Getenv("SIM_SPEED"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			timeScale = parsed
		}
	}
	ticker := engine.NewTicker(session, appLogger, engine.DefaultTickRate, timeScale)
	go ticker.Start(ctx)

	// Periodic ledger snapshot so a crash mid-day loses at most a few seconds.
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				if session.BusinessDay() == 0 {
					continue
				}
				income := session.DailyIncome()
				expense := session.DailyExpense()
				_ = ledgerRepo.UpsertDay(ctx, storage.DayLedger{
					StallID:     stallID,
					BusinessDay: session.BusinessDay(),
					Income:      income,
					Expense:     expense,
					Profit:      income - expense,
					TotalMoney:  session.TotalMoney(),
				})
			}
		}
	}()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(session, appLogger, tune.BroadcastChannelBuffer)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	reconstructor := storage.NewReconstructor(eventRepo)

	// API routes
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger, tune.ClientSendBuffer)
	})

	mux.HandleFunc("POST /api/session/start", func(w http.ResponseWriter, r *http.Request) {
		session.Start()
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/session/end", func(w http.ResponseWriter, r *http.Request) {
		session.End()
		writeJSON(w, map[string]interface{}{
			"status":      "ok",
			"total_money": session.TotalMoney(),
		})
	})

	mux.HandleFunc("POST /api/customers/{id}/settled", func(w http.ResponseWriter, r *http.Request) {
		if err := session.MarkCustomerSettled(r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/orders/place", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CustomerID string `json:"customer_id"`
			RecipeID   string `json:"recipe_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		order, err := session.PlaceOrder(req.CustomerID, req.RecipeID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]interface{}{"status": "ok", "order": order})
	})

	mux.HandleFunc("POST /api/orders/complete", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			CustomerID   string  `json:"customer_id"`
			QualityScore float64 `json:"quality_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		result, err := session.CompleteOrder(req.CustomerID, req.QualityScore)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	})

	mux.HandleFunc("POST /api/orders/complete-oldest", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QualityScore float64 `json:"quality_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		result, err := session.CompleteOldestActiveOrder(req.QualityScore)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	})

	mux.HandleFunc("POST /api/expense", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount float64 `json:"amount"`
			Reason string  `json:"reason"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := session.RecordExpense(req.Amount, req.Reason); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"is_operating":   session.IsOperating(),
			"business_day":   session.BusinessDay(),
			"queue_length":   session.QueueLength(),
			"active_orders":  session.ActiveOrderCount(),
			"pending_orders": session.PendingOrderCount(),
			"daily_income":   session.DailyIncome(),
			"daily_expense":  session.DailyExpense(),
			"total_money":    session.TotalMoney(),
			"customers":      session.Customers(),
		})
	})

	mux.HandleFunc("GET /api/ledger/{day}", func(w http.ResponseWriter, r *http.Request) {
		day, err := strconv.Atoi(r.PathValue("day"))
		if err != nil {
			http.Error(w, "Invalid day", http.StatusBadRequest)
			return
		}
		rebuilt, err := reconstructor.RebuildDay(r.Context(), stallID, day)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, rebuilt)
	})

	mux.HandleFunc("GET /api/tuning", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, tuning.Analyze(metrics.Get().Snapshot()))
	})

	mux.HandleFunc("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /metrics/prometheus", metrics.PrometheusHandler())

	addr := os.Getenv("STALL_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	go func() {
		log.Printf("[STALL-SERVER] HTTP API & WS Server listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[STALL-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[STALL-SERVER] Shutting down...")
	session.End()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests from the presentation dev server
	},
}

// serveWs handles websocket requests from the presentation layer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger, sendBuffer int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn, sendBuffer)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if err == engine.ErrSessionClosed {
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
