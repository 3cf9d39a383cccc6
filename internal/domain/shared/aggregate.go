package shared

import "time"

// BaseAggregateRoot carries what a persisted aggregate needs beyond its
// identity: the row version guarding compare-and-swap writes and the events
// raised since it was loaded.
//
// A decision on a payment bumps Version exactly once, so the stored row
// must still hold ExpectedVersion for the write to land.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// NewBaseAggregateRoot starts a fresh aggregate at version 1, created at at.
func NewBaseAggregateRoot(at time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(at),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion records one state transition.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// ExpectedVersion is the version the store holds before the pending
// transition is written.
func (a *BaseAggregateRoot) ExpectedVersion() int {
	return a.Version - 1
}

// AddDomainEvent queues an event for publication after the write commits.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// TakeDomainEvents returns the queued events and empties the queue, so a
// retried publish never sees them twice.
func (a *BaseAggregateRoot) TakeDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

// ClearDomainEvents drops queued events, e.g. after loading a fixture.
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}
