package broadcast

import (
	"context"
	"sort"
	"sync"
)

// Handler reacts to a message. Handlers must tolerate repeated delivery.
type Handler func(Message)

// Bus is an in-process pub/sub with one topic per event tag.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	topics map[EventType]map[int]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{topics: make(map[EventType]map[int]Handler)}
}

// Subscribe registers h for the given tags, or for every tag when none are
// given. The returned func removes the subscription.
func (b *Bus) Subscribe(h Handler, types ...EventType) func() {
	if len(types) == 0 {
		types = EventTypes
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	for _, t := range types {
		if b.topics[t] == nil {
			b.topics[t] = make(map[int]Handler)
		}
		b.topics[t][id] = h
	}
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, t := range types {
			delete(b.topics[t], id)
		}
	}
}

// Publish delivers m to the handlers of its topic, in subscription order.
func (b *Bus) Publish(m Message) {
	b.mu.RLock()
	topic := b.topics[m.Type]
	ids := make([]int, 0, len(topic))
	for id := range topic {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, topic[id])
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(m)
	}
}

// Pump feeds every message from ch into bus until ctx is cancelled or the
// channel stops listening.
func Pump(ctx context.Context, ch Channel, bus *Bus) error {
	msgs, err := ch.Listen(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			bus.Publish(m)
		}
	}
}
