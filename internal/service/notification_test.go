package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/ecommerce-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_SendsMail(t *testing.T) {
	bus := events.NewEventBus[any]()
	mailer := &recordingMailer{}
	ns := NewNotificationService(mailer, bus, "http://shop.test", hclog.NewNullLogger())
	defer ns.Close()

	bus.Publish(events.UserRegistered{UserID: 7, Email: "jane@example.com", Name: "Jane", Token: "tok-123"})
	bus.Publish(events.ProductAdded{ProductID: 1, Name: "Drill", ActorEmail: "admin@example.com"})
	// no recipient, nothing is sent
	bus.Publish(events.ProductDeleted{ProductID: 1, Name: "Drill"})
	bus.Publish(events.OrderPlaced{OrderID: 1})

	require.Eventually(t, func() bool { return len(mailer.messages()) == 2 }, 2*time.Second, 10*time.Millisecond)

	sent := mailer.messages()
	assert.Equal(t, "jane@example.com", sent[0].To)
	assert.Contains(t, sent[0].Body, "http://shop.test/auth/verify-email?token=tok-123")
	assert.Equal(t, "admin@example.com", sent[1].To)
	assert.Contains(t, sent[1].Body, "Drill")
}

func TestNotificationService_CloseIsIdempotent(t *testing.T) {
	bus := events.NewEventBus[any]()
	ns := NewNotificationService(&recordingMailer{}, bus, "http://shop.test", hclog.NewNullLogger())

	assert.NoError(t, ns.Close())
	assert.NoError(t, ns.Close())

	// publishing after shutdown must not panic
	bus.Publish(events.ProductAdded{Name: "late"})
}

func TestNotificationService_CloseReportsDroppedEvents(t *testing.T) {
	var out bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &out, Level: hclog.Info})

	bus := events.NewEventBus[any]()
	ns := NewNotificationService(&recordingMailer{}, bus, "http://shop.test", logger)

	// a subscriber that never reads fills up and starts losing events
	stalled := bus.Subscribe()
	defer bus.Unsubscribe(stalled)
	for i := 0; i < 150; i++ {
		bus.Publish(events.OrderPlaced{OrderID: int64(i)})
	}

	require.NoError(t, ns.Close())
	assert.GreaterOrEqual(t, bus.Dropped(), uint64(50))
	assert.Contains(t, out.String(), "Event bus dropped deliveries")
}
