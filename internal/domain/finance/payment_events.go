package finance

import (
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Payment event types
const (
	EventTypePaymentSubmitted = "PaymentSubmitted"
	EventTypePaymentValidated = "PaymentValidated"
	EventTypePaymentRejected  = "PaymentRejected"

	AggregateTypePayment = "Payment"
)

// PaymentSubmittedEvent is raised when a payment is recorded as PENDING
type PaymentSubmittedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID         `json:"payment_id"`
	InstallmentID uuid.UUID         `json:"installment_id"`
	Amount        valueobject.Money `json:"amount"`
	Method        PaymentMethod     `json:"method"`
}

// NewPaymentSubmittedEvent creates a new PaymentSubmittedEvent
func NewPaymentSubmittedEvent(p *Payment) *PaymentSubmittedEvent {
	return &PaymentSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentSubmitted, AggregateTypePayment, p.ID, p.CreatedAt),
		PaymentID:       p.ID,
		InstallmentID:   p.InstallmentID,
		Amount:          p.Amount,
		Method:          p.Method,
	}
}

// PaymentDecidedEvent carries the fields shared by validation and rejection.
type PaymentDecidedEvent struct {
	shared.BaseDomainEvent
	PaymentID     uuid.UUID         `json:"payment_id"`
	InstallmentID uuid.UUID         `json:"installment_id"`
	Amount        valueobject.Money `json:"amount"`
	Status        PaymentStatus     `json:"status"`
	ActorID       uuid.UUID         `json:"actor_id"`
	ActorName     string            `json:"actor_name,omitempty"`
	Observations  string            `json:"observations,omitempty"`
	DecidedAt     time.Time         `json:"decided_at"`
}

func newPaymentDecidedEvent(eventType string, p *Payment, actor Actor) PaymentDecidedEvent {
	return PaymentDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypePayment, p.ID, *p.ValidatedAt),
		PaymentID:       p.ID,
		InstallmentID:   p.InstallmentID,
		Amount:          p.Amount,
		Status:          p.Status,
		ActorID:         actor.ID,
		ActorName:       actor.Name,
		Observations:    p.Observations,
		DecidedAt:       *p.ValidatedAt,
	}
}

// PaymentValidatedEvent is raised when an administrator validates a payment
type PaymentValidatedEvent struct {
	PaymentDecidedEvent
}

// NewPaymentValidatedEvent creates a new PaymentValidatedEvent
func NewPaymentValidatedEvent(p *Payment, actor Actor) *PaymentValidatedEvent {
	return &PaymentValidatedEvent{newPaymentDecidedEvent(EventTypePaymentValidated, p, actor)}
}

// PaymentRejectedEvent is raised when an administrator rejects a payment
type PaymentRejectedEvent struct {
	PaymentDecidedEvent
}

// NewPaymentRejectedEvent creates a new PaymentRejectedEvent
func NewPaymentRejectedEvent(p *Payment, actor Actor) *PaymentRejectedEvent {
	return &PaymentRejectedEvent{newPaymentDecidedEvent(EventTypePaymentRejected, p, actor)}
}

// DecidedInstallmentID extracts the owning installment of a decision event.
func DecidedInstallmentID(event shared.DomainEvent) (uuid.UUID, bool) {
	switch e := event.(type) {
	case *PaymentValidatedEvent:
		return e.InstallmentID, true
	case *PaymentRejectedEvent:
		return e.InstallmentID, true
	}
	return uuid.Nil, false
}
