package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleWebSocket_ForwardsPublicEvents(t *testing.T) {
	bus := events.NewEventBus[any]()
	h := NewHandler(hclog.NewNullLogger(), bus, nil)

	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// the subscription is registered shortly after the upgrade, so keep publishing
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				bus.Publish(events.UserRegistered{Email: "secret@example.com", Token: "tok"})
				bus.Publish(events.ProductAdded{ProductID: 3, Name: "Drill", ActorEmail: "admin@example.com"})
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		EventType string         `json:"event-type"`
		Data      map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "product_added", msg.EventType)
	assert.Equal(t, "Drill", msg.Data["name"])
	assert.NotContains(t, string(payload), "admin@example.com")
}

func TestToMessage(t *testing.T) {
	testCases := []struct {
		event any
		want  string
		ok    bool
	}{
		{events.ProductUpdated{ProductID: 1}, "product_updated", true},
		{events.ProductDeleted{ProductID: 1}, "product_deleted", true},
		{events.OrderPlaced{OrderID: 1}, "order_placed", true},
		{events.OrderItemStatusChanged{ItemID: 1}, "order_item_status_changed", true},
		{events.UserRegistered{Token: "x"}, "", false},
		{"unknown", "", false},
	}

	for _, tc := range testCases {
		msg, ok := toMessage(tc.event)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.want, msg.EventType)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://shop.test"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "http://shop.test")
	assert.True(t, check(r))

	r.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(r))
}
