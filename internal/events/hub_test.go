package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) (OrderEvent, bool) {
	t.Helper()
	select {
	case payload := <-sub.Events():
		var ev OrderEvent
		require.NoError(t, json.Unmarshal(payload, &ev))
		return ev, true
	default:
		return OrderEvent{}, false
	}
}

func TestPublishReachesOnlyMatchingStore(t *testing.T) {
	hub := NewHub(4, nil)
	a1 := hub.Subscribe("store-a")
	a2 := hub.Subscribe("store-a")
	b := hub.Subscribe("store-b")

	require.NoError(t, hub.PublishOrder(context.Background(), OrderEvent{ID: "o1", StoreID: "store-a", TotalPrice: 1050}))

	for _, sub := range []*Subscription{a1, a2} {
		ev, ok := receive(t, sub)
		require.True(t, ok)
		assert.Equal(t, "o1", ev.ID)
		assert.Equal(t, int64(1050), ev.TotalPrice)
	}
	_, ok := receive(t, b)
	assert.False(t, ok)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub(4, nil)
	sub := hub.Subscribe("store-a")
	assert.Equal(t, 1, hub.Count())

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Count())

	select {
	case <-sub.Done():
	default:
		t.Fatal("done channel not closed")
	}

	assert.Equal(t, 0, hub.Deliver("store-a", []byte(`{"id":"o2"}`)))
	_, ok := receive(t, sub)
	assert.False(t, ok)
}

func TestFullQueueDropsWithoutBlocking(t *testing.T) {
	hub := NewHub(1, nil)
	slow := hub.Subscribe("store-a")
	fast := hub.Subscribe("store-a")

	assert.Equal(t, 2, hub.Deliver("store-a", []byte(`{"id":"o1","storeId":"store-a"}`)))
	<-fast.Events()

	assert.Equal(t, 1, hub.Deliver("store-a", []byte(`{"id":"o2","storeId":"store-a"}`)))

	ev, ok := receive(t, slow)
	require.True(t, ok)
	assert.Equal(t, "o1", ev.ID)
	ev, ok = receive(t, fast)
	require.True(t, ok)
	assert.Equal(t, "o2", ev.ID)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventOrderCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return assert.AnError
	})
	d.Subscribe(EventOrderCreated, func(_ context.Context, ev Event) error {
		calls = append(calls, "second")
		assert.NotEmpty(t, ev.ID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventOrderCreated, OrderID: "o1"}))
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestCloseEndsEveryStream(t *testing.T) {
	hub := NewHub(1, nil)
	a := hub.Subscribe("store-a")
	b := hub.Subscribe("store-b")

	hub.Close()

	for _, sub := range []*Subscription{a, b} {
		select {
		case <-sub.Done():
		default:
			t.Fatal("subscription still open")
		}
	}
	assert.Equal(t, 0, hub.Count())
	hub.Unsubscribe(a)
}
