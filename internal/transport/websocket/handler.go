package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
)

const writeWait = 10 * time.Second

type Handler struct {
	Upgrader websocket.Upgrader
	Log      hclog.Logger
	EventBus *events.EventBus[any]
}

type Message struct {
	EventType string `json:"event-type"`
	Data      any    `json:"data"`
}

// NewHandler accepts upgrades from the listed origins; "*" or an empty list
// allows any origin
func NewHandler(log hclog.Logger, eventBus *events.EventBus[any], allowedOrigins []string) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		Log:      log,
		EventBus: eventBus,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// toMessage maps a bus event onto its client message. Events that carry
// private data, such as registration tokens, are not forwarded.
func toMessage(event any) (Message, bool) {
	switch e := event.(type) {
	case events.ProductAdded:
		return Message{EventType: "product_added", Data: e}, true
	case events.ProductUpdated:
		return Message{EventType: "product_updated", Data: e}, true
	case events.ProductDeleted:
		return Message{EventType: "product_deleted", Data: e}, true
	case events.OrderPlaced:
		return Message{EventType: "order_placed", Data: e}, true
	case events.OrderItemStatusChanged:
		return Message{EventType: "order_item_status_changed", Data: e}, true
	default:
		return Message{}, false
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	subscriber := h.EventBus.Subscribe()
	defer h.EventBus.Unsubscribe(subscriber)

	// closed when the client goes away
	done := make(chan struct{})

	go h.readPump(conn, done)

	for {
		select {
		case event, ok := <-subscriber:
			if !ok {
				return
			}
			message, ok := toMessage(event)
			if !ok {
				continue
			}

			payload, err := json.Marshal(message)
			if err != nil {
				h.Log.Error("Error marshalling message", "error", err)
				continue
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.Log.Error("Error writing message to WebSocket", "error", err)
				return
			}
		case <-done:
			h.Log.Info("WebSocket connection closed by the client")
			return
		}
	}
}

func (h *Handler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Error("Error reading message", "error", err)
			}
			break
		}
	}
}
