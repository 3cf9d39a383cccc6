package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cecagem/backoffice/internal/domain/shared"
	"github.com/cecagem/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentStatus represents the status of a submitted payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"   // Submitted, awaiting administrator review
	PaymentStatusCompleted PaymentStatus = "COMPLETED" // Validated by an administrator
	PaymentStatusFailed    PaymentStatus = "FAILED"    // Rejected by an administrator
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsTerminal returns true once an administrator has decided on the payment
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentMethod represents how the payer sent the money
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodYape         PaymentMethod = "YAPE" // Peruvian mobile wallet
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodYape, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// Actor identifies the administrator performing a transition.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// IsZero reports whether no actor was supplied.
func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}

// Payment is one submitted payment against an installment. Payments are
// append-only: once COMPLETED or FAILED they never change again.
type Payment struct {
	shared.BaseAggregateRoot
	InstallmentID uuid.UUID
	Amount        valueobject.Money
	Method        PaymentMethod
	Status        PaymentStatus
	Reference     string
	ValidatedBy   *uuid.UUID
	ValidatedAt   *time.Time
	Observations  string
}

// NewPayment records a PENDING payment for an installment.
func NewPayment(installmentID uuid.UUID, amount valueobject.Money, method PaymentMethod, reference string, at time.Time) (*Payment, error) {
	if installmentID == uuid.Nil {
		return nil, shared.InvalidInputError("installment ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.InvalidInputError("payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.InvalidInputError(fmt.Sprintf("unknown payment method %q", method))
	}
	if len(reference) > 100 {
		return nil, shared.InvalidInputError("reference cannot exceed 100 characters")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(at),
		InstallmentID:     installmentID,
		Amount:            amount,
		Method:            method,
		Status:            PaymentStatusPending,
		Reference:         strings.TrimSpace(reference),
	}
	p.AddDomainEvent(NewPaymentSubmittedEvent(p))
	return p, nil
}

// Validate marks a PENDING payment as COMPLETED on behalf of actor.
// Observations are optional.
func (p *Payment) Validate(actor Actor, observations string, at time.Time) error {
	if err := p.checkTransition(actor, "validate"); err != nil {
		return err
	}

	p.decide(PaymentStatusCompleted, actor, observations, at)
	p.AddDomainEvent(NewPaymentValidatedEvent(p, actor))
	return nil
}

// Reject marks a PENDING payment as FAILED on behalf of actor. A non-blank
// reason is required.
func (p *Payment) Reject(actor Actor, observations string, at time.Time) error {
	if err := p.checkTransition(actor, "reject"); err != nil {
		return err
	}
	if strings.TrimSpace(observations) == "" {
		return shared.InvalidStateError("a rejection reason is required")
	}

	p.decide(PaymentStatusFailed, actor, observations, at)
	p.AddDomainEvent(NewPaymentRejectedEvent(p, actor))
	return nil
}

func (p *Payment) checkTransition(actor Actor, action string) error {
	if actor.IsZero() {
		return shared.InvalidInputError("acting administrator is required")
	}
	if p.Status != PaymentStatusPending {
		return shared.InvalidStateError(fmt.Sprintf("cannot %s payment in %s status", action, p.Status))
	}
	return nil
}

func (p *Payment) decide(status PaymentStatus, actor Actor, observations string, at time.Time) {
	by := actor.ID
	p.Status = status
	p.ValidatedBy = &by
	p.ValidatedAt = &at
	p.Observations = strings.TrimSpace(observations)
	p.Touch(at)
	p.IncrementVersion()
}

func (p *Payment) IsPending() bool   { return p.Status == PaymentStatusPending }
func (p *Payment) IsCompleted() bool { return p.Status == PaymentStatusCompleted }
func (p *Payment) IsFailed() bool    { return p.Status == PaymentStatusFailed }
