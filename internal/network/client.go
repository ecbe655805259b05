package network

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hermiaTT/WanderingFoodCart/internal/engine"
	"github.com/hermiaTT/WanderingFoodCart/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// PresentationAction is an incoming command from the presentation layer.
// The engine treats these as the only way visuals influence the simulation:
// movement completion, kitchen progress and day control.
type PresentationAction struct {
	Type       string          `json:"type"` // "SETTLE", "PLACE_ORDER", "COMPLETE", ...
	CustomerID string          `json:"customer_id"`
	Payload    json.RawMessage `json:"payload"`
}

// Client holds one WebSocket connection to a presentation frontend.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read failed: " + err.Error())
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PresentationAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PresentationAction: " + err.Error())
			continue
		}

		c.handleAction(action)
	}
}

func (c *Client) handleAction(action PresentationAction) {
	session := c.hub.session

	switch action.Type {
	case "START_DAY":
		session.Start()
		c.hub.logger.Event("DAY_STARTED", "", "presentation opened the stall")

	case "END_DAY":
		session.End()
		c.hub.logger.Event("DAY_ENDED", "", "presentation closed the stall")

	case "SETTLE":
		// Movement finished: the customer stands at the serving position.
		if err := session.MarkCustomerSettled(action.CustomerID); err != nil {
			c.logRejected(action, err)
		}

	case "PLACE_ORDER":
		var parsed struct {
			RecipeID string `json:"recipe_id"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			c.hub.logger.Warn("Failed to parse PLACE_ORDER payload for " + action.CustomerID)
			return
		}
		if _, err := session.PlaceOrder(action.CustomerID, parsed.RecipeID); err != nil {
			c.logRejected(action, err)
		}

	case "COMPLETE":
		var parsed struct {
			QualityScore float64 `json:"quality_score"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			c.hub.logger.Warn("Failed to parse COMPLETE payload for " + action.CustomerID)
			return
		}
		if _, err := session.CompleteOrder(action.CustomerID, parsed.QualityScore); err != nil {
			c.logRejected(action, err)
		}

	case "COMPLETE_OLDEST":
		var parsed struct {
			QualityScore float64 `json:"quality_score"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			c.hub.logger.Warn("Failed to parse COMPLETE_OLDEST payload")
			return
		}
		if _, err := session.CompleteOldestActiveOrder(parsed.QualityScore); err != nil {
			c.logRejected(action, err)
		}

	case "EXPENSE":
		var parsed struct {
			Amount float64 `json:"amount"`
			Reason string  `json:"reason"`
		}
		if err := json.Unmarshal(action.Payload, &parsed); err != nil {
			c.hub.logger.Warn("Failed to parse EXPENSE payload")
			return
		}
		if err := session.RecordExpense(parsed.Amount, parsed.Reason); err != nil {
			c.logRejected(action, err)
		}

	default:
		c.hub.logger.Warn("Unknown PresentationAction type: " + action.Type)
	}
}

func (c *Client) logRejected(action PresentationAction, err error) {
	if errors.Is(err, engine.ErrSessionClosed) {
		c.hub.logger.Warn("Command " + action.Type + " rejected: stall is closed")
		return
	}
	c.hub.logger.Warn("Command " + action.Type + " rejected: " + err.Error())
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
