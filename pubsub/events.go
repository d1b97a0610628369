package pubsub

import "context"

// Event types published during one tutor turn.
const (
	// CreatedEvent carries a newly committed user message.
	CreatedEvent EventType = "created"
	// StreamEvent carries the running accumulation of a streaming answer,
	// republished after every token.
	StreamEvent EventType = "stream"
	// CommittedEvent carries the final assistant message, sources attached.
	CommittedEvent EventType = "committed"
	// ErrorEvent carries a non-fatal, user-visible error for the turn.
	ErrorEvent EventType = "error"
	// ResetEvent signals that the vector index was wiped and rebuilt.
	ResetEvent EventType = "reset"
)

type (
	// EventType identifies the kind of event.
	EventType string

	// Event is one item on the bus.
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Publisher publishes events to all subscribers.
	Publisher[T any] interface {
		Publish(EventType, T)
	}

	// Subscriber returns a read-only event channel that closes when the
	// context ends.
	Subscriber[T any] interface {
		Subscribe(context.Context) <-chan Event[T]
	}
)
