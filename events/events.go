// Package events implements a small in-process event bus used to notify
// connected clients about enrichment results.
package events

import (
	"sync"

	"github.com/juho05/log"
)

type Type string

const TypeLyricsUpdated Type = "lyrics-updated"

type Event struct {
	Type   Type   `json:"type"`
	ItemID string `json:"itemId"`
}

const subscriberBuffer = 16

type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan Event),
	}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called to release the subscription.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers event to all subscribers. Slow subscribers whose buffer
// is full miss the event instead of blocking the publisher.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.Warnf("event bus: dropping %s event for slow subscriber", event.Type)
		}
	}
}
