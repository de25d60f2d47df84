// Package broadcast carries change notifications between grid processes that
// share one store, and decides how a running view reacts to them.
package broadcast

import (
	"context"
	"errors"
	"time"
)

// EventType tags a change notification.
type EventType string

const (
	AspectAdded   EventType = "ASPECT_ADDED"
	AspectUpdated EventType = "ASPECT_UPDATED"
	AspectDeleted EventType = "ASPECT_DELETED"
	AspectPinned  EventType = "ASPECT_PINNED"
	EntryAdded    EventType = "ENTRY_ADDED"
	EntryDeleted  EventType = "ENTRY_DELETED"
)

// EventTypes lists every tag in a stable order.
var EventTypes = []EventType{AspectAdded, AspectUpdated, AspectDeleted, AspectPinned, EntryAdded, EntryDeleted}

// Valid reports whether t is a known tag.
func (t EventType) Valid() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Data is the payload hint. ID is the aspect id for aspect events and the
// entry id for entry events, in which case AspectID names the owner.
type Data struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	AspectID string `json:"aspectId,omitempty"`
}

// Message is one notification on the wire.
type Message struct {
	Type   EventType `json:"type"`
	Data   Data      `json:"data"`
	Origin string    `json:"origin,omitempty"`
	Sent   time.Time `json:"sent"`
}

// Pertains reports whether the message concerns aspect id.
func (m Message) Pertains(id string) bool {
	if id == "" {
		return false
	}
	if m.Data.AspectID != "" {
		return m.Data.AspectID == id
	}
	return m.Data.ID == id
}

// ErrClosed is returned when using a closed channel.
var ErrClosed = errors.New("broadcast: channel closed")

// Channel delivers messages to every other process sharing the store.
type Channel interface {
	Broadcast(ctx context.Context, m Message) error
	Listen(ctx context.Context) (<-chan Message, error)
	Origin() string
	Close() error
}

// Nop is a Channel that drops everything. It stands in when no shared
// directory is available.
type Nop struct{}

var _ Channel = Nop{}

func (Nop) Broadcast(context.Context, Message) error { return nil }

func (Nop) Listen(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

func (Nop) Origin() string { return "" }

func (Nop) Close() error { return nil }
