package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/harmonia-server/events"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	bus := events.NewBus()
	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	bus.Publish(events.Event{Type: events.TypeLyricsUpdated, ItemID: "it_1"})

	for _, ch := range []<-chan events.Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, events.TypeLyricsUpdated, event.Type)
			assert.Equal(t, "it_1", event.ItemID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestCanceledSubscriberReceivesNothing(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe()
	cancel()

	bus.Publish(events.Event{Type: events.TypeLyricsUpdated, ItemID: "it_1"})

	event, open := <-ch
	assert.False(t, open)
	assert.Empty(t, event.ItemID)
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe()
	defer cancel()

	for i := 0; i < 100; i++ {
		bus.Publish(events.Event{Type: events.TypeLyricsUpdated, ItemID: "it_1"})
	}

	// buffered events are still readable
	select {
	case event := <-ch:
		require.Equal(t, "it_1", event.ItemID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}
