package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus[any]()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(ProductAdded{ProductID: 7, Name: "Laptop"})

	for _, sub := range []Subscriber[any]{a, b} {
		ev := <-sub
		added, ok := ev.(ProductAdded)
		require.True(t, ok)
		assert.Equal(t, int64(7), added.ProductID)
	}
}

func TestEventBus_UnsubscribeClosesOnce(t *testing.T) {
	bus := NewEventBus[any]()
	sub := bus.Subscribe()

	bus.Unsubscribe(sub)
	bus.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)

	// publishing after the last subscriber left must not panic
	bus.Publish(ProductDeleted{ProductID: 1})
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus[int]()
	sub := bus.Subscribe()

	for i := 0; i < cap(sub)+5; i++ {
		bus.Publish(i)
	}

	assert.Equal(t, uint64(5), bus.Dropped())
	assert.Len(t, sub, cap(sub))
}
