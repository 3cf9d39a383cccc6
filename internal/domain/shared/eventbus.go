package shared

import "context"

// EventHandler reacts to committed domain events, such as recomputing an
// installment's status after one of its payments is decided.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the handled types; empty means every event.
	EventTypes() []string
}

// EventPublisher is what application services see: events go out only
// after the transition that raised them is stored.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber wires handlers at startup. Explicit eventTypes override
// the handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the process-wide dispatcher. Stop waits for in-flight
// handlers until ctx is done.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
